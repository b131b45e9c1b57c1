package models

import (
	"strings"
	"time"

	"github.com/grupolocar/locar-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles known to the menu rules
const (
	RoleAdmin         = "admin"
	RoleRH            = "rh"
	RoleDP            = "Departamento Pessoal"
	RoleComercial     = "Comercial"
	RoleFinanceiro    = "Financeiro"
	RoleControladoria = "Controladoria"
)

// Top-level menu areas of the web client
const (
	MenuRH            = "rh"
	MenuDP            = "dp"
	MenuComercial     = "comercial"
	MenuFinanceiro    = "financeiro"
	MenuControladoria = "controladoria"
	MenuConfiguracoes = "configuracoes"
)

// AllMenus lists every menu area in display order
var AllMenus = []string{MenuRH, MenuDP, MenuComercial, MenuFinanceiro, MenuControladoria, MenuConfiguracoes}

// ModuleAll grants every module
const ModuleAll = "todos"

var restrictedMenus = map[string][]string{
	RoleRH:            {MenuDP, MenuComercial, MenuFinanceiro, MenuControladoria, MenuConfiguracoes},
	RoleDP:            {MenuRH, MenuComercial, MenuFinanceiro, MenuControladoria, MenuConfiguracoes},
	RoleComercial:     {MenuRH, MenuDP, MenuFinanceiro, MenuControladoria, MenuConfiguracoes},
	RoleFinanceiro:    {MenuRH, MenuComercial, MenuDP, MenuControladoria, MenuConfiguracoes},
	RoleControladoria: {MenuRH, MenuComercial, MenuFinanceiro, MenuDP, MenuConfiguracoes},
}

// User is an account of the management API
type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username         string             `bson:"username" json:"username"`
	Password         string             `bson:"password" json:"-"`
	Nome             string             `bson:"nome,omitempty" json:"nome,omitempty"`
	Email            string             `bson:"email,omitempty" json:"email,omitempty"`
	Role             string             `bson:"role,omitempty" json:"role,omitempty"`
	PermittedModules []string           `bson:"permittedModules" json:"permittedModules"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserInput is the body of POST and PUT /api/usuarios. Password is optional on updates.
type UserInput struct {
	Username         string   `json:"username"`
	Password         string   `json:"password,omitempty"`
	Nome             string   `json:"nome,omitempty"`
	Email            string   `json:"email,omitempty"`
	Role             string   `json:"role"`
	PermittedModules []string `json:"permittedModules"`
}

// PasswordInput is the body of PUT /api/usuarios/:id/senha
type PasswordInput struct {
	Password string `json:"password"`
}

// Normalize trims the input and drops empty module names
func (u *UserInput) Normalize() {
	u.Username = strings.TrimSpace(u.Username)
	u.Nome = strings.TrimSpace(u.Nome)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Role = strings.TrimSpace(u.Role)

	modules := make([]string, 0, len(u.PermittedModules))
	for _, m := range u.PermittedModules {
		if m = strings.TrimSpace(m); m != "" {
			modules = append(modules, m)
		}
	}
	u.PermittedModules = modules
}

// Validate checks the input; creating requires a password
func (u *UserInput) Validate(creating bool) *utils.ValidationResult {
	result := utils.NewValidationResult()
	if u.Username == "" {
		result.AddError("username", "username é obrigatório")
	}
	if creating && u.Password == "" {
		result.AddError("password", "senha é obrigatória")
	}
	if u.Password != "" && len(u.Password) < MinPasswordLength {
		result.AddError("password", ErrWeakPassword.Error())
	}
	if u.Email != "" && !utils.IsValidEmail(u.Email) {
		result.AddError("email", "e-mail inválido")
	}
	return result
}

// MinPasswordLength accepts the seeded rh/rh account
const MinPasswordLength = 2

// UserSummary is the user block returned by login
type UserSummary struct {
	ID               primitive.ObjectID `json:"_id"`
	Username         string             `json:"username"`
	Nome             string             `json:"nome"`
	Email            string             `json:"email"`
	Role             string             `json:"role"`
	PermittedModules []string           `json:"permittedModules"`
}

// Summary returns the public login view of the user
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:               u.ID,
		Username:         u.Username,
		Nome:             u.Nome,
		Email:            u.Email,
		Role:             u.Role,
		PermittedModules: u.PermittedModules,
	}
}

// RestrictedMenus returns the menu areas hidden from a role. The web client used to key
// this table by username, so the username is tried when the role has no entry.
func RestrictedMenus(role, username string) []string {
	if role == RoleAdmin {
		return []string{}
	}
	if menus, ok := restrictedMenus[role]; ok {
		return append([]string(nil), menus...)
	}
	if menus, ok := restrictedMenus[username]; ok {
		return append([]string(nil), menus...)
	}
	return []string{}
}

// VisibleMenus returns AllMenus minus the restricted ones
func VisibleMenus(role, username string) []string {
	restricted := RestrictedMenus(role, username)
	visible := make([]string, 0, len(AllMenus))
	for _, menu := range AllMenus {
		if !containsString(restricted, menu) {
			visible = append(visible, menu)
		}
	}
	return visible
}

// MenusResponse is returned by GET /api/auth/menus
type MenusResponse struct {
	Role       string   `json:"role"`
	Restricted []string `json:"restricted"`
	Visible    []string `json:"visible"`
}
