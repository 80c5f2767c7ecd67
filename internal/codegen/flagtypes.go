package codegen

// flagType maps a wire flag type to the pflag constructor used in generated code.
type flagType struct {
	Name string // Wire name (e.g., "stringSlice")
	Func string // pflag FlagSet method (e.g., "StringSlice")
	Zero string // Go literal for the default value
}

var flagTypes = []flagType{
	{Name: "string", Func: "String", Zero: `""`},
	{Name: "bool", Func: "Bool", Zero: "false"},
	{Name: "int", Func: "Int", Zero: "0"},
	{Name: "float64", Func: "Float64", Zero: "0"},
	{Name: "duration", Func: "Duration", Zero: "0"},
	{Name: "stringSlice", Func: "StringSlice", Zero: "nil"},
	{Name: "intSlice", Func: "IntSlice", Zero: "nil"},
}

// FlagTypes returns the flag types the generator understands, in display order.
func FlagTypes() []string {
	names := make([]string, len(flagTypes))
	for i, ft := range flagTypes {
		names[i] = ft.Name
	}
	return names
}

// Supported reports whether typ is a known flag type.
func Supported(typ string) bool {
	_, ok := lookupFlagType(typ)
	return ok
}

func lookupFlagType(typ string) (flagType, bool) {
	for _, ft := range flagTypes {
		if ft.Name == typ {
			return ft, true
		}
	}
	return flagType{}, false
}
