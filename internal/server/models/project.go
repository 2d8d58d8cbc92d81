package models

// Project is one entry of the portfolio catalog.
type Project struct {
	ID           string   `json:"id" yaml:"id"`
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description" yaml:"description"`
	Category     string   `json:"category" yaml:"category"`
	Technologies []string `json:"technologies" yaml:"technologies"`
	ProjectURL   string   `json:"projectUrl,omitempty" yaml:"projectUrl"`
	GithubURL    string   `json:"githubUrl,omitempty" yaml:"githubUrl"`
}
