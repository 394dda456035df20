package domain

type MemberType string

const (
	MemberTypeMember  MemberType = "Member"
	MemberTypeVisitor MemberType = "Visitor"
)

// Member is a registered library user. The id is "U" plus a 4-digit
// sequence, e.g. "U0001". Visitors may browse and inquire but never borrow
// or reserve.
type Member struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Sex     string     `json:"sex"`
	NIC     string     `json:"nic"`
	Address string     `json:"address"`
	Email   string     `json:"email,omitempty"`
	Type    MemberType `json:"member_type"`
}

// CanBorrow reports whether this user is allowed to hold loans and
// reservations.
func (m *Member) CanBorrow() bool {
	return m.Type == MemberTypeMember
}
