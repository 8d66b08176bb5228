package catalog

// File is the on-disk schema of an embedded catalog.
type File struct {
	Version   int     `yaml:"version"`
	ID        string  `yaml:"id"`
	Title     string  `yaml:"title"`
	Questions []Entry `yaml:"questions"`
}

// Entry is one question as declared in a catalog file.
type Entry struct {
	Question   string   `yaml:"question"`
	Answer     string   `yaml:"answer"`
	Options    []string `yaml:"options"`
	Difficulty string   `yaml:"difficulty"`
	Category   string   `yaml:"category"`
}
