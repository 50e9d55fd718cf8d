package models

// Division maps a selectable division name to its backing series file.
type Division struct {
	Name     string `csv:"Division" firestore:"division" json:"division"`
	FileName string `csv:"File Name" firestore:"fileName" json:"fileName"`
	// Position keeps reference-table order for sources without a natural row order.
	Position int `csv:"-" firestore:"position" json:"-"`
}
