package models

import "time"

// Profile is the company profile document stored once per user identity.
type Profile struct {
	UserID               string     `json:"userId"`
	CompanyName          string     `json:"companyName"`
	Email                string     `json:"email"`
	Niches               []string   `json:"selectedNiches"`
	NotificationsEnabled bool       `json:"emailNotifications"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            *time.Time `json:"updatedAt,omitempty"`
}

// ProfilePatch carries a partial profile update. Nil fields (and an empty
// Niches slice) are left untouched when the patch is merged into a stored
// document.
type ProfilePatch struct {
	UserID               *string    `json:"userId,omitempty"`
	CompanyName          *string    `json:"companyName,omitempty"`
	Email                *string    `json:"email,omitempty"`
	Niches               []string   `json:"selectedNiches,omitempty"`
	NotificationsEnabled *bool      `json:"emailNotifications,omitempty"`
	CreatedAt            *time.Time `json:"createdAt,omitempty"`
	UpdatedAt            *time.Time `json:"updatedAt,omitempty"`
}

// Apply performs a shallow merge of the patch onto p and returns the result.
// p itself is not modified.
func (p Profile) Apply(patch ProfilePatch) Profile {
	out := p.Clone()
	if patch.UserID != nil {
		out.UserID = *patch.UserID
	}
	if patch.CompanyName != nil {
		out.CompanyName = *patch.CompanyName
	}
	if patch.Email != nil {
		out.Email = *patch.Email
	}
	if len(patch.Niches) > 0 {
		out.Niches = append([]string(nil), patch.Niches...)
	}
	if patch.NotificationsEnabled != nil {
		out.NotificationsEnabled = *patch.NotificationsEnabled
	}
	if patch.CreatedAt != nil {
		out.CreatedAt = *patch.CreatedAt
	}
	if patch.UpdatedAt != nil {
		t := *patch.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	out := p
	out.Niches = append([]string(nil), p.Niches...)
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

// HasNiche reports whether niche is one of the profile's selected niches.
func (p Profile) HasNiche(niche string) bool {
	for _, n := range p.Niches {
		if n == niche {
			return true
		}
	}
	return false
}
