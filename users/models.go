package users

// User represents a registered user.
// The password is stored and returned exactly as submitted. The tasks a user
// owns are not part of the struct: they are found through Task.UserID.
type User struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"x"`
}
