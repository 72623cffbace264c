package models

// RoleUser - роль игрока в токене сервиса авторизации.
const RoleUser = "ROLE_USER"
