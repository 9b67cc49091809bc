package models

// FoundryRecord describes a type foundry or an individual designer.
type FoundryRecord struct {
	Name      string `json:"name" yaml:"name"`
	Slug      string `json:"slug" yaml:"slug"`
	Handle    string `json:"handle,omitempty" yaml:"handle,omitempty"`
	Bio       string `json:"bio,omitempty" yaml:"bio,omitempty"`
	Website   string `json:"website,omitempty" yaml:"website,omitempty"`
	Instagram string `json:"instagram,omitempty" yaml:"instagram,omitempty"`
	IsFoundry bool   `json:"is_foundry" yaml:"is_foundry,omitempty"`
}
