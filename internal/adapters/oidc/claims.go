package oidc

// loginClaimOrder is tried in order when no login claim is configured. AD and
// ADFS put the account name in samaccountname; plain OIDC providers use the rest.
var loginClaimOrder = []string{"samaccountname", "preferred_username", "sub"}

// profile collects the claims a login can carry, in both the standard OIDC
// shape and the AD/ADFS shape. ID token and userinfo claims decode into it alike.
type profile struct {
	Sub               string   `json:"sub"`
	PreferredUsername string   `json:"preferred_username"`
	SamAccountName    string   `json:"samaccountname"`
	GivenName         string   `json:"given_name"`
	FamilyName        string   `json:"family_name"`
	FirstName         string   `json:"firstname"`
	LastName          string   `json:"lastname"`
	Email             string   `json:"email"`
	Mail              string   `json:"mail"`
	Groups            []string `json:"groups"`
	MemberOf          []string `json:"memberof"`
}

func (p profile) claim(name string) string {
	switch name {
	case "sub":
		return p.Sub
	case "preferred_username":
		return p.PreferredUsername
	case "samaccountname":
		return p.SamAccountName
	case "email", "mail":
		return p.email()
	}
	return ""
}

// login returns the first non-empty claim among names.
func (p profile) login(names []string) string {
	for _, name := range names {
		if v := p.claim(name); v != "" {
			return v
		}
	}
	return ""
}

func (p profile) email() string      { return coalesce(p.Email, p.Mail) }
func (p profile) givenName() string  { return coalesce(p.GivenName, p.FirstName) }
func (p profile) familyName() string { return coalesce(p.FamilyName, p.LastName) }

func (p profile) groups() []string {
	if len(p.Groups) == 0 {
		return p.MemberOf
	}
	return p.Groups
}

// complete reports whether p already has everything a session needs.
func (p profile) complete(loginClaims []string) bool {
	return p.login(loginClaims) != "" && p.email() != ""
}

// fillFrom copies fields p lacks from other.
func (p profile) fillFrom(other profile) profile {
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&p.Sub, other.Sub},
		{&p.PreferredUsername, other.PreferredUsername},
		{&p.SamAccountName, other.SamAccountName},
		{&p.GivenName, other.GivenName},
		{&p.FamilyName, other.FamilyName},
		{&p.FirstName, other.FirstName},
		{&p.LastName, other.LastName},
		{&p.Email, other.Email},
		{&p.Mail, other.Mail},
	} {
		if *f.dst == "" {
			*f.dst = f.src
		}
	}
	if len(p.groups()) == 0 {
		p.Groups, p.MemberOf = other.Groups, other.MemberOf
	}
	return p
}

func coalesce(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
