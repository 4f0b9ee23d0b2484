package extractor

// Module represents the extracted structure of one Python source file.
// A nil docstring means the module has none; it serializes as JSON null,
// never as an empty string.
type Module struct {
	Docstring *string    `json:"docstring"`
	Functions []Function `json:"functions"`
	Classes   []Class    `json:"classes"`
}

// Function represents a top-level function or a class method.
// Content holds the verbatim source of the whole definition, signature
// through final body statement.
type Function struct {
	Name      string  `json:"name"`
	Docstring *string `json:"docstring"`
	Content   string  `json:"content"`
}

// Class represents a top-level class definition. Methods contains only the
// direct function definitions in the class body, in source order.
type Class struct {
	Name      string     `json:"name"`
	Docstring *string    `json:"docstring"`
	Bases     []string   `json:"bases"`
	Methods   []Function `json:"methods"`
}
