package eeclient

// Wire types for the Earth Engine REST API (v1). Only the fields this
// service sends or reads are declared.

// Expression is a value graph; Result names the root entry in Values.
type Expression struct {
	Result string               `json:"result"`
	Values map[string]ValueNode `json:"values"`
}

// ValueNode is either a constant or a function call.
type ValueNode struct {
	ConstantValue           any                 `json:"constantValue,omitempty"`
	FunctionInvocationValue *FunctionInvocation `json:"functionInvocationValue,omitempty"`
}

type FunctionInvocation struct {
	FunctionName string               `json:"functionName"`
	Arguments    map[string]ValueNode `json:"arguments"`
}

type computeValueRequest struct {
	Expression *Expression `json:"expression"`
}

type computeValueResponse struct {
	Result any `json:"result"`
}

type DoubleRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type VisualizationOptions struct {
	PaletteColors []string      `json:"paletteColors,omitempty"`
	Ranges        []DoubleRange `json:"ranges,omitempty"`
}

// EarthEngineMap is the maps.create request and response body.
type EarthEngineMap struct {
	Name                 string                `json:"name,omitempty"`
	Expression           *Expression           `json:"expression,omitempty"`
	VisualizationOptions *VisualizationOptions `json:"visualizationOptions,omitempty"`
}
