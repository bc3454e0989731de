package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.opentelemetry.io/otel/trace"

	"github.com/VanillaFroggy/atom-messenger-api/internal/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByName(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUserRole(ctx context.Context, id uuid.UUID, role models.Role) (bool, error) {
	args := m.Called(ctx, id, role)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) BlockUser(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) CreateChat(ctx context.Context, name string, memberIDs []uuid.UUID) (*models.Chat, error) {
	args := m.Called(ctx, name, memberIDs)
	return args.Get(0).(*models.Chat), args.Error(1)
}

func (m *MockChatRepository) GetChatByID(ctx context.Context, chatID uuid.UUID) (*models.Chat, error) {
	args := m.Called(ctx, chatID)
	return args.Get(0).(*models.Chat), args.Error(1)
}

func (m *MockChatRepository) GetChatsByIDs(ctx context.Context, chatIDs []uuid.UUID) ([]models.Chat, error) {
	args := m.Called(ctx, chatIDs)
	return args.Get(0).([]models.Chat), args.Error(1)
}

func (m *MockChatRepository) DeleteChat(ctx context.Context, chatID uuid.UUID) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

func (m *MockChatRepository) GetChatIDsByUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockChatRepository) GetAllChatIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockChatRepository) GetMembershipsByChatIDs(ctx context.Context, chatIDs []uuid.UUID) ([]models.Membership, error) {
	args := m.Called(ctx, chatIDs)
	return args.Get(0).([]models.Membership), args.Error(1)
}

func (m *MockChatRepository) IsMember(ctx context.Context, chatID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Bool(0), args.Error(1)
}

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) CreateMessage(ctx context.Context, chatID uuid.UUID, authorID *uuid.UUID, messageType models.MessageType, value string) (*models.Message, error) {
	args := m.Called(ctx, chatID, authorID, messageType, value)
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageRepository) GetMessageByID(ctx context.Context, messageID uuid.UUID) (*models.Message, error) {
	args := m.Called(ctx, messageID)
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageRepository) GetMessagesByChatID(ctx context.Context, chatID uuid.UUID) ([]models.Message, error) {
	args := m.Called(ctx, chatID)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessageRepository) UpdateMessage(ctx context.Context, messageID uuid.UUID, messageType models.MessageType, value string) (*models.Message, error) {
	args := m.Called(ctx, messageID, messageType, value)
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageRepository) MarkMessageRead(ctx context.Context, messageID uuid.UUID) (*models.Message, error) {
	args := m.Called(ctx, messageID)
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageRepository) DeleteMessage(ctx context.Context, messageID uuid.UUID) (*uuid.UUID, error) {
	args := m.Called(ctx, messageID)
	return args.Get(0).(*uuid.UUID), args.Error(1)
}

func (m *MockMessageRepository) GetLatestMessages(ctx context.Context, chatIDs []uuid.UUID) (map[uuid.UUID]models.Message, error) {
	args := m.Called(ctx, chatIDs)
	return args.Get(0).(map[uuid.UUID]models.Message), args.Error(1)
}

type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) GenerateFromPassword(password []byte, cost int) ([]byte, error) {
	args := m.Called(password, cost)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockHasher) CompareHashAndPassword(storedPassword []byte, userPassword []byte) error {
	args := m.Called(storedPassword, userPassword)
	return args.Error(0)
}

func (m *MockHasher) DefaultCost() int {
	return m.Called().Int(0)
}

func NoopTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

func CreateTestRequest(url, method string, body interface{}) *http.Request {
	var buffer bytes.Buffer
	if body != nil {
		json.NewEncoder(&buffer).Encode(body)
	}

	req := httptest.NewRequest(method, url, &buffer)
	req.Header.Set("Content-Type", "application/json")

	return req
}
