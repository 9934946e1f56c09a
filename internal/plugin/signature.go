package plugin

// Syntax shapes accepted for flag arguments
const (
	ShapeString   = "String"
	ShapeDuration = "Duration"
	ShapeFilepath = "Filepath"
)

// TypeAny accepts or produces any value in input/output declarations
const TypeAny = "Any"

// Command categories
const (
	CategoryExperimental = "Experimental"
	CategoryMisc         = "Misc"
)

// Flag is a named argument of a command
type Flag struct {
	Long         string  `json:"long"`
	Short        *string `json:"short"`
	Arg          *string `json:"arg"`
	Required     bool    `json:"required"`
	Desc         string  `json:"desc"`
	VarID        *int    `json:"var_id"`
	DefaultValue any     `json:"default_value"`
}

// PositionalArg is a positional argument of a command
type PositionalArg struct {
	Name         string `json:"name"`
	Desc         string `json:"desc"`
	Shape        string `json:"shape"`
	VarID        *int   `json:"var_id"`
	DefaultValue any    `json:"default_value"`
}

// Signature describes a command to the shell
type Signature struct {
	Name                         string          `json:"name"`
	Description                  string          `json:"description"`
	ExtraDescription             string          `json:"extra_description"`
	SearchTerms                  []string        `json:"search_terms"`
	RequiredPositional           []PositionalArg `json:"required_positional"`
	OptionalPositional           []PositionalArg `json:"optional_positional"`
	RestPositional               *PositionalArg  `json:"rest_positional"`
	Named                        []Flag          `json:"named"`
	InputOutputTypes             [][2]string     `json:"input_output_types"`
	AllowVariantsWithoutExamples bool            `json:"allow_variants_without_examples"`
	AllowsUnknownArgs            bool            `json:"allows_unknown_args"`
	IsFilter                     bool            `json:"is_filter"`
	CreatesScope                 bool            `json:"creates_scope"`
	Category                     string          `json:"category"`
}

// Example documents one invocation of a command
type Example struct {
	Example     string `json:"example"`
	Description string `json:"description"`
	Result      *Value `json:"result"`
}

// PluginSignature pairs a signature with its examples
type PluginSignature struct {
	Sig      Signature `json:"sig"`
	Examples []Example `json:"examples"`
}

// NewSignature starts a signature for name with the standard help flag
func NewSignature(name string) *Signature {
	s := &Signature{
		Name:                         name,
		SearchTerms:                  []string{},
		RequiredPositional:           []PositionalArg{},
		OptionalPositional:           []PositionalArg{},
		Named:                        []Flag{},
		InputOutputTypes:             [][2]string{},
		AllowVariantsWithoutExamples: true,
		Category:                     CategoryMisc,
	}
	return s.Switch("help", "Display the help message for this command", 'h')
}

// AddNamed adds an optional flag taking a value of shape.
// A zero short rune means the flag has no short form.
func (s *Signature) AddNamed(long, shape, desc string, short rune) *Signature {
	arg := shape
	s.Named = append(s.Named, Flag{
		Long:  long,
		Short: shortName(short),
		Arg:   &arg,
		Desc:  desc,
	})
	return s
}

// Switch adds a boolean flag
func (s *Signature) Switch(long, desc string, short rune) *Signature {
	s.Named = append(s.Named, Flag{
		Long:  long,
		Short: shortName(short),
		Desc:  desc,
	})
	return s
}

// Describe sets the one-line description
func (s *Signature) Describe(desc string) *Signature {
	s.Description = desc
	return s
}

// InCategory sets the help category
func (s *Signature) InCategory(category string) *Signature {
	s.Category = category
	return s
}

// InputOutput declares an accepted input type and the output it produces
func (s *Signature) InputOutput(in, out string) *Signature {
	s.InputOutputTypes = append(s.InputOutputTypes, [2]string{in, out})
	return s
}

// Search adds search terms
func (s *Signature) Search(terms ...string) *Signature {
	s.SearchTerms = append(s.SearchTerms, terms...)
	return s
}

// Flag returns the named flag if it is declared
func (s *Signature) Flag(long string) (Flag, bool) {
	for _, f := range s.Named {
		if f.Long == long {
			return f, true
		}
	}
	return Flag{}, false
}

func shortName(r rune) *string {
	if r == 0 {
		return nil
	}
	s := string(r)
	return &s
}
