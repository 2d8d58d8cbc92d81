// Package models defines client-side data models used by the portfolio CLI.
package models

import "time"

type Preferences struct {
	Theme          string `json:"theme"`
	Notifications  bool   `json:"notifications"`
	VoiceAssistant bool   `json:"voiceAssistant"`
}

// UserSummary is the public view of an account as returned by the API.
type UserSummary struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	DisplayName string      `json:"displayName"`
	Role        string      `json:"role"`
	Preferences Preferences `json:"preferences"`
}

// Profile is what the user submits when registering.
type Profile struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Session is the client's view of being logged in. A zero Session is the
// anonymous state.
type Session struct {
	Token        string
	User         *UserSummary
	LastActivity time.Time
}

// Active reports whether both a credential and a user are present.
func (s Session) Active() bool {
	return s.Token != "" && s.User != nil
}

type Project struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Technologies []string `json:"technologies"`
	ProjectURL   string   `json:"projectUrl,omitempty"`
	GithubURL    string   `json:"githubUrl,omitempty"`
}
