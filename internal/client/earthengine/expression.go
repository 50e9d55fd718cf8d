package eeclient

// Expression builders for the Earth Engine REST value graph. Each helper
// returns a node; Build wraps the root into a single-result Expression.

const timeStartProperty = "system:time_start"

func Build(root ValueNode) *Expression {
	return &Expression{
		Result: "0",
		Values: map[string]ValueNode{"0": root},
	}
}

func Constant(v any) ValueNode {
	return ValueNode{ConstantValue: v}
}

func Invoke(name string, args map[string]ValueNode) ValueNode {
	return ValueNode{
		FunctionInvocationValue: &FunctionInvocation{
			FunctionName: name,
			Arguments:    args,
		},
	}
}

func LoadCollection(id string) ValueNode {
	return Invoke("ImageCollection.load", map[string]ValueNode{
		"id": Constant(id),
	})
}

// TimeStarts is aggregate_array('system:time_start').
func TimeStarts(collection ValueNode) ValueNode {
	return Invoke("AggregateFeatureCollection.array", map[string]ValueNode{
		"collection": collection,
		"property":   Constant(timeStartProperty),
	})
}

func Date(value string) ValueNode {
	return Invoke("Date", map[string]ValueNode{
		"value": Constant(value),
	})
}

// FilterDate keeps images whose start time is in [start, end).
func FilterDate(collection ValueNode, start, end string) ValueNode {
	dateRange := Invoke("DateRange", map[string]ValueNode{
		"start": Date(start),
		"end":   Date(end),
	})
	filter := Invoke("Filter.dateRangeContains", map[string]ValueNode{
		"leftValue":  dateRange,
		"rightField": Constant(timeStartProperty),
	})
	return Invoke("Collection.filter", map[string]ValueNode{
		"collection": collection,
		"filter":     filter,
	})
}

func Size(collection ValueNode) ValueNode {
	return Invoke("Collection.size", map[string]ValueNode{
		"collection": collection,
	})
}

func First(collection ValueNode) ValueNode {
	return Invoke("Collection.first", map[string]ValueNode{
		"collection": collection,
	})
}

func Select(image ValueNode, band string) ValueNode {
	return Invoke("Image.select", map[string]ValueNode{
		"input":         image,
		"bandSelectors": Constant([]string{band}),
	})
}

func MultiPolygon(coords [][][][2]float64) ValueNode {
	return Invoke("GeometryConstructors.MultiPolygon", map[string]ValueNode{
		"coordinates": Constant(coords),
	})
}

func Clip(image, geometry ValueNode) ValueNode {
	return Invoke("Image.clip", map[string]ValueNode{
		"input":    image,
		"geometry": geometry,
	})
}
