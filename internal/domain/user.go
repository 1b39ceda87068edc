package domain

// User представляет пользователя сервиса.
// Friends - множество id друзей (направленная связь: "A добавил B"
// не означает, что B добавил A). Заполняется при загрузке из хранилища.
type User struct {
	ID       int64   `json:"id" db:"id"`
	Email    string  `json:"email" db:"email"`
	Login    string  `json:"login" db:"login"`
	Name     string  `json:"name" db:"name"`
	Birthday Date    `json:"birthday" db:"birthday"`
	Friends  []int64 `json:"friends,omitempty" db:"-"`
}

// CreateUserRequest - тело запроса на создание пользователя.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Login    string `json:"login" validate:"required"`
	Name     string `json:"name"`
	Birthday Date   `json:"birthday"`
}

// UpdateUserRequest - тело запроса на обновление пользователя.
// Семантика полной перезаписи: пустые поля проходят ту же валидацию,
// что и при создании.
type UpdateUserRequest struct {
	ID       int64  `json:"id"`
	Email    string `json:"email" validate:"required,email"`
	Login    string `json:"login" validate:"required"`
	Name     string `json:"name"`
	Birthday Date   `json:"birthday"`
}
