package contact

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateContact(ctx context.Context, c models.Contact) (*models.Contact, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contact), args.Error(1)
}

type MailerMock struct{ mock.Mock }

func (m *MailerMock) Publish(ctx context.Context, msg models.MailMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func TestService_Submit(t *testing.T) {
	stored := models.Contact{Name: "Ann", Email: "ann@x.com", Message: "<b>hi</b>"}

	tests := []struct {
		name       string
		to         string
		setupMocks func(r *RepoMock, m *MailerMock)
		wantErr    bool
	}{
		{
			name: "saved and mailed",
			to:   "support@lms.dev",
			setupMocks: func(r *RepoMock, m *MailerMock) {
				r.On("CreateContact", mock.Anything, stored).Return(&models.Contact{ID: "1", Name: "Ann", Email: "ann@x.com", Message: "<b>hi</b>"}, nil).Once()
				m.On("Publish", mock.Anything, mock.MatchedBy(func(msg models.MailMessage) bool {
					return msg.To == "support@lms.dev" && strings.Contains(msg.Body, "&lt;b&gt;hi")
				})).Return(nil).Once()
			},
		},
		{
			name: "mail failure ignored",
			to:   "support@lms.dev",
			setupMocks: func(r *RepoMock, m *MailerMock) {
				r.On("CreateContact", mock.Anything, stored).Return(&models.Contact{ID: "1"}, nil).Once()
				m.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
			},
		},
		{
			name: "no support address",
			setupMocks: func(r *RepoMock, _ *MailerMock) {
				r.On("CreateContact", mock.Anything, stored).Return(&models.Contact{ID: "1"}, nil).Once()
			},
		},
		{
			name: "store failure",
			to:   "support@lms.dev",
			setupMocks: func(r *RepoMock, _ *MailerMock) {
				r.On("CreateContact", mock.Anything, stored).Return(nil, errors.New("db down")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, m := &RepoMock{}, &MailerMock{}
			tt.setupMocks(r, m)

			got, err := NewService(r, m, tt.to, sl.Discard()).Submit(context.Background(), " Ann ", "ANN@x.com", "<b>hi</b>")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "1", got.ID)
			}
			r.AssertExpectations(t)
			m.AssertExpectations(t)
		})
	}
}
