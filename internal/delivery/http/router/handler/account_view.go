package handler

import (
	"time"

	"userhub/internal/domain/entity"
	"userhub/internal/domain/repository"
)

// AccountView is the outward representation of an account. Credentials and
// lockout bookkeeping never appear here.
type AccountView struct {
	ID            uint64     `json:"id"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	FullName      string     `json:"fullName"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	Active        bool       `json:"active"`
	EmailVerified bool       `json:"emailVerified"`
	Bio           string     `json:"bio,omitempty"`
	AvatarURL     string     `json:"avatarUrl,omitempty"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// PageView is one page of accounts with the unpaged total.
type PageView struct {
	Items   []*AccountView `json:"items"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"perPage"`
}

func newAccountView(account *entity.Account) *AccountView {
	return &AccountView{
		ID:            account.ID,
		FirstName:     account.FirstName,
		LastName:      account.LastName,
		FullName:      account.FullName(),
		Username:      account.Username,
		Email:         account.Email,
		Role:          string(account.Role),
		Active:        account.Active,
		EmailVerified: account.EmailVerified,
		Bio:           account.Bio,
		AvatarURL:     account.AvatarURL,
		LastLoginAt:   account.LastLoginAt,
		CreatedAt:     account.CreatedAt,
		UpdatedAt:     account.UpdatedAt,
	}
}

func newPageView(page *repository.Page) *PageView {
	items := make([]*AccountView, 0, len(page.Accounts))
	for _, account := range page.Accounts {
		items = append(items, newAccountView(account))
	}

	return &PageView{
		Items:   items,
		Total:   page.Total,
		Page:    page.Page,
		PerPage: page.PerPage,
	}
}
