package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// Имена встроенных шаблонов
const (
	TemplateConfirmationCode = "confirmation_code"
	TemplatePasswordReset    = "password_reset"
)

// Темы писем. Язык единый с телами шаблонов
const (
	SubjectConfirmationCode = "Код подтверждения"
	SubjectPasswordReset    = "Сброс пароля"
)

// TemplateManager хранит и рендерит html-шаблоны писем
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер с зарегистрированными встроенными шаблонами
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}

	// Ошибки parse здесь невозможны - шаблоны статические
	_ = tm.AddTemplate(TemplateConfirmationCode,
		`<h2>Ваш код подтверждения</h2>`+
			`<p>Используйте этот код для подтверждения: <strong>{{.Code}}</strong></p>`+
			`<p>Код действителен в течение {{.TTLMinutes}} минут.</p>`)

	_ = tm.AddTemplate(TemplatePasswordReset,
		`<h2>Сброс пароля</h2>`+
			`<p>Для сброса пароля перейдите по следующей ссылке:</p>`+
			`<p><a href="{{.ResetLink}}">Сбросить пароль</a></p>`+
			`<p>Ссылка действительна в течение {{.TTLMinutes}} минут.</p>`)

	return tm
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// AddTemplate добавляет шаблон в менеджер
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}
