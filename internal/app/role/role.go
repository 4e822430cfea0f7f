package role

type Role int

const (
	Submitter Role = iota // 0
	Moderator             // 1
)

func (r Role) String() string {
	switch r {
	case Moderator:
		return "moderator"
	default:
		return "submitter"
	}
}
