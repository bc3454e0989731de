package services

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username already exists")
	ErrUnauthorized  = errors.New("invalid credentials or blocked account")
	ErrNotChatMember = errors.New("user is not a member of this chat")
	ErrUserNotFound  = errors.New("user not found")
	ErrChatNotFound  = errors.New("chat not found")

	// ErrChatIntegrity reports a chat that reached the aggregation step without
	// a latest message. Every chat gets a system message at creation, so this
	// is a data corruption signal and is never papered over.
	ErrChatIntegrity = errors.New("chat has no messages")
)
