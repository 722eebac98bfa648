package db_models

type Role string

const (
	RoleDreamer Role = "dreamer"
	RoleAdmin   Role = "admin"
)

type Account struct {
	BaseModel
	Name            string
	Email           string `gorm:"uniqueIndex"`
	PasswordHash    string `json:"-"`
	PasswordSalt    string `json:"-"`
	Role            Role
	IsPremium       bool
	Bio             string
	Avatar          string
	IsProfilePublic bool

	ImageUsed           int
	ImageLimit          int
	VideoUsed           int
	VideoLimit          int
	InterpretationUsed  int
	InterpretationLimit int
}

// Usage returns the counters of one enrichment kind.
func (a *Account) Usage(kind EnrichmentKind) QuotaUsage {
	u := QuotaUsage{Kind: kind, IsPremium: a.IsPremium}
	switch kind {
	case KindImage:
		u.Used, u.Limit = a.ImageUsed, a.ImageLimit
	case KindVideo:
		u.Used, u.Limit = a.VideoUsed, a.VideoLimit
	case KindInterpretation:
		u.Used, u.Limit = a.InterpretationUsed, a.InterpretationLimit
	}
	return u
}

// SetUsed overwrites the used counter of one enrichment kind.
func (a *Account) SetUsed(kind EnrichmentKind, used int) {
	switch kind {
	case KindImage:
		a.ImageUsed = used
	case KindVideo:
		a.VideoUsed = used
	case KindInterpretation:
		a.InterpretationUsed = used
	}
}
