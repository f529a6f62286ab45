package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanops-backend/internal/domain"
	"cleanops-backend/internal/recurrence"
	"cleanops-backend/internal/service"
)

func TestRecurringWorkOrderService_CreateRecurring(t *testing.T) {
	ctx := context.Background()

	t.Run("WeeklySeries", func(t *testing.T) {
		e := newEnv(t)
		customer := e.seedCustomer(t, "Acme Offices")

		created, err := e.recurring.CreateRecurring(ctx,
			service.CreateWorkOrderInput{
				CustomerID:       customer.ID,
				Description:      "weekly office clean",
				TotalAmountCents: 150_00,
			},
			recurrence.Rule{Frequency: recurrence.FrequencyWeekly, Weekday: time.Wednesday},
			"2024-01-01", "2024-01-31")
		require.NoError(t, err)
		require.Len(t, created, 5)

		assert.Equal(t, "2024-01-03", created[0].Date)
		assert.Equal(t, "2024-01-31", created[4].Date)
		for _, wo := range created {
			assert.True(t, wo.Recurring)
			assert.Equal(t, domain.WorkOrderStatusDraft, wo.Status)
			assert.Equal(t, "Acme Offices", wo.CustomerName)
		}

		all, err := e.workOrders.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 5)
	})

	t.Run("UnknownCustomerFailsBeforeExpansion", func(t *testing.T) {
		e := newEnv(t)

		created, err := e.recurring.CreateRecurring(ctx,
			service.CreateWorkOrderInput{CustomerID: "missing", TotalAmountCents: 150_00},
			recurrence.Rule{Frequency: recurrence.FrequencyWeekly, Weekday: time.Wednesday},
			"2024-01-01", "2024-01-31")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, created)

		all, listErr := e.workOrders.List(ctx)
		require.NoError(t, listErr)
		assert.Empty(t, all)
	})

	t.Run("BadRule", func(t *testing.T) {
		e := newEnv(t)
		customer := e.seedCustomer(t, "Acme Offices")

		_, err := e.recurring.CreateRecurring(ctx,
			service.CreateWorkOrderInput{CustomerID: customer.ID, TotalAmountCents: 150_00},
			recurrence.Rule{Frequency: recurrence.FrequencyMonthlyByDate, DayOfMonth: 40},
			"2024-01-01", "2024-03-31")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		e := newEnv(t)
		customer := e.seedCustomer(t, "Acme Offices")

		_, err := e.recurring.CreateRecurring(ctx,
			service.CreateWorkOrderInput{CustomerID: customer.ID, TotalAmountCents: 150_00},
			recurrence.Rule{Frequency: recurrence.FrequencyWeekly, Weekday: time.Wednesday},
			"2024-02-01", "2024-01-01")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
