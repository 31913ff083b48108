package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler    *AuthHandler
	EmailHandler   *EmailHandler
	ProfileHandler *ProfileHandler
	PhotoHandler   *PhotoHandler
	AdminHandler   *AdminHandler
}
