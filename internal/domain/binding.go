package domain

// UserConnectionBinding — привязка долговременного идентификатора пользователя
// к идентификатору его текущего live-соединения. На пользователя хранится не
// более одной привязки; повторная регистрация перезаписывает старую.
type UserConnectionBinding struct {
	UserID       string `json:"user_id"`
	ConnectionID string `json:"connection_id"`
}
