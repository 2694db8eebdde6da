package submit

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Profile captures what differs between submit handlers.
type Profile struct {
	Name          string   `json:"name" yaml:"name"`
	Endpoint      string   `json:"endpoint" yaml:"endpoint"`
	SuccessStatus int      `json:"successStatus" yaml:"successStatus"`
	Fields        []string `json:"fields" yaml:"fields"`
	// GlobalErrors enables fanning a lone __all__ error out to every field.
	GlobalErrors bool `json:"globalErrors" yaml:"globalErrors"`
}

// LoginProfile returns the login form profile.
func LoginProfile() Profile {
	return Profile{
		Name:          "login",
		Endpoint:      "/login",
		SuccessStatus: http.StatusOK,
		Fields:        []string{"email", "password"},
		GlobalErrors:  true,
	}
}

// RegisterProfile returns the registration form profile.
func RegisterProfile() Profile {
	return Profile{
		Name:          "register",
		Endpoint:      "/register",
		SuccessStatus: http.StatusCreated,
		Fields:        []string{"first_name", "last_name", "email", "password", "confirm_password"},
	}
}

// DefaultProfiles returns the built-in profiles keyed by name.
func DefaultProfiles() map[string]Profile {
	login := LoginProfile()
	register := RegisterProfile()
	return map[string]Profile{
		login.Name:    login,
		register.Name: register,
	}
}

// Validate reports configuration mistakes.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("submit: profile name is required")
	}
	if strings.TrimSpace(p.Endpoint) == "" {
		return fmt.Errorf("submit: profile %q: endpoint is required", p.Name)
	}
	if p.SuccessStatus < 100 || p.SuccessStatus > 599 {
		return fmt.Errorf("submit: profile %q: success status %d out of range", p.Name, p.SuccessStatus)
	}
	if len(p.Fields) == 0 {
		return fmt.Errorf("submit: profile %q: at least one tracked field is required", p.Name)
	}
	seen := make(map[string]struct{}, len(p.Fields))
	for _, field := range p.Fields {
		name := strings.TrimSpace(field)
		if name == "" {
			return fmt.Errorf("submit: profile %q: empty field name", p.Name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("submit: profile %q: duplicate field %q", p.Name, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Clone returns a deep copy.
func (p Profile) Clone() Profile {
	out := p
	out.Fields = append([]string(nil), p.Fields...)
	return out
}
