package model

// ResolvedProfile is the profile a membership presents after merging its
// overrides with the owning user's defaults. The HasCustom flags tell the
// UI which fields are per-band overrides (editable locally) versus
// inherited from the user profile.
type ResolvedProfile struct {
	DisplayName          string `json:"display_name"`
	AvatarURL            string `json:"avatar_url"`
	Instrument           string `json:"instrument"`
	HasCustomDisplayName bool   `json:"has_custom_display_name"`
	HasCustomAvatar      bool   `json:"has_custom_avatar"`
	HasCustomInstrument  bool   `json:"has_custom_instrument"`
}

// ResolveProfile merges membership overrides with user defaults.
//
// Precedence per field: membership override → user default → fallback.
// The fallback for display name is the username so a member never renders
// nameless; avatar and instrument fall back to empty.
//
// The merge is recomputed on every read and never persisted, so a user
// profile edit is immediately visible on all of their memberships.
func ResolveProfile(m *Membership, u *User) ResolvedProfile {
	p := ResolvedProfile{}

	if m.DisplayName != nil && *m.DisplayName != "" {
		p.DisplayName = *m.DisplayName
		p.HasCustomDisplayName = true
	} else if u != nil && u.DisplayName != "" {
		p.DisplayName = u.DisplayName
	} else if u != nil {
		p.DisplayName = u.Username
	}

	if m.AvatarURL != nil && *m.AvatarURL != "" {
		p.AvatarURL = *m.AvatarURL
		p.HasCustomAvatar = true
	} else if u != nil {
		p.AvatarURL = u.AvatarURL
	}

	if m.Instrument != nil && *m.Instrument != "" {
		p.Instrument = *m.Instrument
		p.HasCustomInstrument = true
	} else if u != nil {
		p.Instrument = u.Instrument
	}

	return p
}
