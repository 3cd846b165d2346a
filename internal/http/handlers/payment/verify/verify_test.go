package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/lms-server/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lms-server/internal/lib/apperr"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/models"
	"github.com/magabrotheeeer/lms-server/internal/services/subscription"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) Verify(ctx context.Context, user *models.User, in subscription.VerifyInput) error {
	return m.Called(ctx, user, in).Error(0)
}

func TestHandler_ServeHTTP(t *testing.T) {
	user := &models.User{ID: "u1"}
	body := `{"razorpay_payment_id":"pay_1","razorpay_signature":"sig","razorpay_subscription_id":"sub_1"}`
	in := subscription.VerifyInput{PaymentID: "pay_1", Signature: "sig", SubscriptionID: "sub_1"}

	tests := []struct {
		name       string
		body       string
		mockErr    error
		callSvc    bool
		wantStatus int
		wantBody   string
	}{
		{"verified", body, nil, true, http.StatusOK, "Payment verified successfully"},
		{"bad signature", body, apperr.BadRequest("Payment not verified, please try again"), true, http.StatusBadRequest, "Payment not verified"},
		{"conflict", body, apperr.Conflict("Subscription can not be activated in its current state"), true, http.StatusConflict, "current state"},
		{"missing signature", `{"razorpay_payment_id":"pay_1"}`, nil, false, http.StatusBadRequest, "Signature is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &ServiceMock{}
			if tt.callSvc {
				svc.On("Verify", mock.Anything, user, in).Return(tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/payment/verify", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(middlewarectx.WithUser(req.Context(), user))
			rr := httptest.NewRecorder()
			New(sl.Discard(), svc).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
