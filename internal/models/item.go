package models

import (
	"errors"
	"fmt"
)

// ErrMissingField означает, что в записи ленты нет обязательного поля.
var ErrMissingField = errors.New("feed item is missing a required field")

// FeedItem представляет одну публикацию из ленты в том порядке полей, в котором она уходит в письмо.
// Published хранится в текстовом виде, как его отдал источник.
type FeedItem struct {
	Title       string
	Description string
	Link        string
	Published   string
	Author      string
}

// Validate проверяет, что все обязательные поля заполнены.
// Возвращает ошибку, оборачивающую ErrMissingField, с именем первого пустого поля.
func (it FeedItem) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"title", it.Title},
		{"description", it.Description},
		{"link", it.Link},
		{"published", it.Published},
		{"author", it.Author},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: %s (title %q)", ErrMissingField, f.name, it.Title)
		}
	}
	return nil
}

// Notification — тема и тело одного письма.
type Notification struct {
	Subject string
	Body    string
}
