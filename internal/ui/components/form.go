package components

const (
	inputClass  = "block w-full rounded-md border border-gray-300 px-3 py-2 text-sm focus:border-indigo-500 focus:outline-none"
	buttonClass = "inline-flex w-full justify-center rounded-md bg-indigo-600 px-4 py-2 text-sm font-semibold text-white hover:bg-indigo-500"
	labelClass  = "mb-1 block text-sm font-medium text-gray-700"
	linkClass   = "text-sm font-medium text-indigo-600 hover:text-indigo-500"
)

type InputProps struct {
	ID           string
	Name         string
	Type         string
	Label        string
	Value        string
	Placeholder  string
	Autocomplete string
	MinLength    int
	Required     bool
	ReadOnly     bool
	Class        string
}

func (p InputProps) inputType() string {
	if p.Type == "" {
		return "text"
	}
	return p.Type
}
