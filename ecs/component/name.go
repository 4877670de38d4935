package component

// Name is the config section an entity was built from.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
