package domain

const (
	RoleDonor     = "DONOR"
	RoleRecipient = "RECIPIENT"
)

type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
	Role  string `db:"role"`
}

func (u *User) IsDonor() bool { return u != nil && u.Role == RoleDonor }
