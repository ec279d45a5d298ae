package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()
	m, err := NewHeaderMap(nil)
	require.NoError(t, err)

	headers := []string{"Identificación", "Nombre del Cliente", "Observaciones", "Plataforma Utilizada", "Monto Pagado"}
	values := []string{" 123 ", "Ana", "vip", ""}

	raw, unknown := m.Normalize(headers, values)
	require.Equal(t, []string{"Observaciones"}, unknown)
	require.Equal(t, ptr("123"), raw.Identification)
	require.Equal(t, ptr("Ana"), raw.NameUser)
	require.Nil(t, raw.PlatformName, "blank cell is absent")
	require.Nil(t, raw.AmountPaid, "missing trailing cell is absent")
	require.Equal(t, ptr("123"), raw.Get(FieldIdentification))
}

func TestNormalize_LaterNonBlankWins(t *testing.T) {
	t.Parallel()
	m, err := NewHeaderMap(nil)
	require.NoError(t, err)

	raw, _ := m.Normalize(
		[]string{"identificacion", "Número de identificación", "identificacion"},
		[]string{"1", "2", ""},
	)
	require.Equal(t, ptr("2"), raw.Identification)
}

func TestFormat(t *testing.T) {
	t.Parallel()

	raw := Raw{
		Code:                ptr("TX-1"),
		TransactionDatetime: ptr("2024-06-01 15:30:00"),
		Amount:              ptr("1.500,00"),
		TransactionStatus:   ptr("Completado"),
		Identification:      ptr("123"),
		BillingPeriod:       ptr("junio"),
		AmountBilled:        ptr("n/a"),
		AmountPaid:          ptr("1500"),
	}
	rec, malformed := Format(raw, time.UTC)

	require.Equal(t, ptr("TX-1"), rec.Code)
	require.Equal(t, ptr("2024-06-01 15:30:00"), rec.TransactionDatetime)
	require.Equal(t, "1500", rec.Amount.Decimal.String())
	require.Equal(t, StatusCompleted, rec.Status)
	require.Nil(t, rec.BillingPeriod)
	require.False(t, rec.AmountBilled.Valid)
	require.True(t, rec.AmountPaid.Valid)
	require.ElementsMatch(t, []Field{FieldBillingPeriod, FieldAmountBilled}, malformed)
}

func TestFormat_AbsentStatusIsPending(t *testing.T) {
	t.Parallel()

	rec, malformed := Format(Raw{Identification: ptr("9")}, time.UTC)
	require.Equal(t, StatusPending, rec.Status)
	require.Empty(t, malformed)
	require.False(t, rec.Amount.Valid)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Record{Identification: ptr("123")}.Validate())
	require.ErrorIs(t, Record{}.Validate(), ErrMissingIdentification)
	require.ErrorIs(t, Record{Identification: ptr("  ")}.Validate(), ErrMissingIdentification)
}
