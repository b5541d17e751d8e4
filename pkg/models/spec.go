package models

// ElementSpec is one node of a selector configuration tree as it appears on disk.
// A non-nil Elements slice marks the node as a container.
type ElementSpec struct {
	Selector  string        `json:"selector" yaml:"selector" validate:"required"`
	Attribute string        `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Elements  []ElementSpec `json:"elements,omitempty" yaml:"elements,omitempty" validate:"omitempty,dive"`
	Multiple  bool          `json:"multiple,omitempty" yaml:"multiple,omitempty"`
	Before    string        `json:"before,omitempty" yaml:"before,omitempty"`
	After     string        `json:"after,omitempty" yaml:"after,omitempty"`
}

// PageConfig pairs a target URL with the top-level specs extracted from it
type PageConfig struct {
	URL      string        `json:"url" yaml:"url" validate:"required,url"`
	Elements []ElementSpec `json:"elements" yaml:"elements" validate:"required,min=1,dive"`
}

// ConfigFile is the content of a single configuration file
type ConfigFile []PageConfig

// Spec is a compiled ElementSpec: either a *Leaf or a *Container.
type Spec interface {
	spec()
	Target() string
}

// Leaf renders each matched node into a single decorated value
type Leaf struct {
	Selector  string
	Attribute string
	Multiple  bool
	Before    string
	After     string
}

// Container recurses into each matched node with its children
type Container struct {
	Selector string
	Multiple bool
	Children []Spec
}

func (*Leaf) spec()      {}
func (*Container) spec() {}

// Target returns the selector of the leaf
func (l *Leaf) Target() string { return l.Selector }

// Target returns the selector of the container
func (c *Container) Target() string { return c.Selector }

// Compile converts the wire shape into its tagged form. The spec is expected to be
// validated already; an empty Elements slice compiles to a leaf.
func (e ElementSpec) Compile() Spec {
	if len(e.Elements) == 0 {
		return &Leaf{
			Selector:  e.Selector,
			Attribute: e.Attribute,
			Multiple:  e.Multiple,
			Before:    e.Before,
			After:     e.After,
		}
	}
	return &Container{
		Selector: e.Selector,
		Multiple: e.Multiple,
		Children: CompileAll(e.Elements),
	}
}

// CompileAll compiles a sequence of specs, preserving order
func CompileAll(elements []ElementSpec) []Spec {
	specs := make([]Spec, 0, len(elements))
	for _, e := range elements {
		specs = append(specs, e.Compile())
	}
	return specs
}

// Specs returns the compiled top-level specs of the page
func (p PageConfig) Specs() []Spec {
	return CompileAll(p.Elements)
}

// Target is a page ready for extraction: its URL and compiled specs
type Target struct {
	URL    string
	Specs  []Spec
	Source string // configuration file the page came from
}

// NewTarget compiles a validated page configuration
func NewTarget(page PageConfig, source string) Target {
	return Target{
		URL:    page.URL,
		Specs:  page.Specs(),
		Source: source,
	}
}
