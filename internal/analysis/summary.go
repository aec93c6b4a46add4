package analysis

// Counts aggregates declaration totals for one module. Methods and nested
// functions count toward FunctionCount; bindings from every scope count
// toward VariableCount.
type Counts struct {
	FunctionCount int `json:"function_count"`
	ClassCount    int `json:"class_count"`
	ImportCount   int `json:"import_count"`
	VariableCount int `json:"variable_count"`
}

// Summarize derives aggregate counts from a module model. It is total:
// any model produced by Parse yields a result.
func Summarize(m *Module) Counts {
	c := Counts{
		ImportCount:   len(m.Imports),
		VariableCount: len(m.Variables),
	}
	for _, f := range m.Functions {
		countFunction(f, &c)
	}
	for _, cls := range m.Classes {
		countClass(cls, &c)
	}
	return c
}

func countFunction(f *Function, c *Counts) {
	c.FunctionCount++
	for _, nested := range f.Functions {
		countFunction(nested, c)
	}
	for _, cls := range f.Classes {
		countClass(cls, c)
	}
}

func countClass(cls *Class, c *Counts) {
	c.ClassCount++
	for _, m := range cls.Methods {
		countFunction(m, c)
	}
	for _, nested := range cls.Classes {
		countClass(nested, c)
	}
}
