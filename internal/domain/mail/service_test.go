package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func TestCompose(t *testing.T) {
	msg, err := Compose(map[string]any{
		"name":       "أحمد",
		"message":    "<script>alert(1)</script>",
		"email":      "a@example.com",
		SubjectField: "طلب توظيف",
	})
	require.NoError(t, err)

	assert.Equal(t, "طلب توظيف", msg.Subject)
	assert.Equal(t, "a@example.com", msg.ReplyTo)
	assert.Equal(t, "email: a@example.com\nmessage: <script>alert(1)</script>\nname: أحمد\n", msg.Text)
	assert.Contains(t, msg.HTML, `dir="rtl"`)
	assert.Contains(t, msg.HTML, "أحمد")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
	assert.NotContains(t, msg.HTML, "<script>")
	assert.NotContains(t, msg.HTML, SubjectField)
}

func TestCompose_ReplyTo(t *testing.T) {
	tests := []struct {
		name  string
		email any
		want  string
	}{
		{name: "plain", email: " ali@example.com ", want: "ali@example.com"},
		{name: "with display name", email: "Ali <ali@example.com>", want: "ali@example.com"},
		{name: "double at", email: "ali@@example", want: ""},
		{name: "no at", email: "ali.example.com", want: ""},
		{name: "not a string", email: 42, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Compose(map[string]any{"name": "x", "email": tt.email})
			require.NoError(t, err)
			assert.Equal(t, tt.want, msg.ReplyTo)
			assert.Contains(t, msg.Text, "email: ")
		})
	}
}

func TestCompose_Empty(t *testing.T) {
	_, err := Compose(map[string]any{SubjectField: "x"})
	assert.ErrorIs(t, err, ErrEmptyForm)

	msg, err := Compose(map[string]any{"q": []any{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, DefaultSubject, msg.Subject)
	assert.Equal(t, "q: a, b\n", msg.Text)
}

func TestService_Send(t *testing.T) {
	sender := new(MockSender)
	service := NewService(sender, Config{From: "noreply@example.com", To: "hr@example.com, boss@example.com"}, slog.Default())

	sender.On("Send", mock.Anything, mock.MatchedBy(func(m Message) bool {
		return m.From == "noreply@example.com" &&
			len(m.To) == 2 && m.To[1] == "boss@example.com" &&
			m.Text == "name: x\n"
	})).Return(nil)

	require.NoError(t, service.Send(context.Background(), map[string]any{"name": "x"}))
	sender.AssertExpectations(t)
}

func TestService_Send_FromDefaultsToRecipient(t *testing.T) {
	sender := new(MockSender)
	service := NewService(sender, Config{To: "hr@example.com"}, slog.Default())

	sender.On("Send", mock.Anything, mock.MatchedBy(func(m Message) bool {
		return m.From == "hr@example.com"
	})).Return(nil)

	assert.NoError(t, service.Send(context.Background(), map[string]any{"name": "x"}))
}

func TestService_Send_NotConfigured(t *testing.T) {
	err := NewService(nil, Config{To: "hr@example.com"}, slog.Default()).Send(context.Background(), map[string]any{"a": "b"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	err = NewService(new(MockSender), Config{To: " "}, slog.Default()).Send(context.Background(), map[string]any{"a": "b"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestService_Send_Failure(t *testing.T) {
	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("535 auth failed"))
	service := NewService(sender, Config{To: "hr@example.com"}, slog.Default())

	err := service.Send(context.Background(), map[string]any{"a": "b"})
	assert.ErrorContains(t, err, "535 auth failed")
}
