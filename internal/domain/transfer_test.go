package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() TransferForm {
	return TransferForm{
		RecipientAccount: "1234567890",
		RecipientName:    "Jo",
		Amount:           "50.00",
	}
}

func TestTransferForm_Validate_AmountBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr string
	}{
		{name: "Zero is rejected", amount: "0.00", wantErr: "Amount must be greater than 0"},
		{name: "Smallest cent is accepted", amount: "0.01"},
		{name: "Upper bound is accepted", amount: "10000.00"},
		{name: "One cent over the bound is rejected", amount: "10000.01", wantErr: "Maximum transfer amount is $10,000"},
		{name: "Negative amount is rejected", amount: "-5", wantErr: "Amount must be greater than 0"},
		{name: "Unparsable amount counts as zero", amount: "abc", wantErr: "Amount must be greater than 0"},
		{name: "Empty amount counts as zero", amount: "", wantErr: "Amount must be greater than 0"},
		{name: "Surrounding spaces are ignored", amount: " 12.5 "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			form.Amount = tt.amount

			req, err := form.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.True(t, req.Amount.GreaterThan(decimal.Zero))
				return
			}

			var fieldErrs FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.Len(t, fieldErrs, 1)
			assert.Equal(t, FieldAmount, fieldErrs[0].Field)
			assert.Equal(t, tt.wantErr, fieldErrs[0].Message)
		})
	}
}

func TestTransferForm_Validate_AccountLength(t *testing.T) {
	for length := 1; length <= 25; length++ {
		form := validForm()
		form.RecipientAccount = strings.Repeat("7", length)

		_, err := form.Validate()
		accepted := length >= MinAccountNumberLength && length <= MaxAccountNumberLength
		if accepted {
			assert.NoError(t, err, "length %d should be accepted", length)
			continue
		}

		var fieldErrs FieldErrors
		require.ErrorAs(t, err, &fieldErrs, "length %d should be rejected", length)
		msg, ok := fieldErrs.Get(FieldRecipientAccount)
		assert.True(t, ok)
		assert.NotEmpty(t, msg)
	}
}

func TestTransferForm_Validate_ShortAccountHasSingleError(t *testing.T) {
	form := validForm()
	form.RecipientAccount = "123"

	_, err := form.Validate()

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, FieldErrors{
		{Field: FieldRecipientAccount, Message: "Account number must be at least 10 digits"},
	}, fieldErrs)
}

func TestTransferForm_Validate_ReportsEveryFieldInOrder(t *testing.T) {
	form := TransferForm{
		RecipientAccount: strings.Repeat("1", 21),
		RecipientName:    "J",
		Amount:           "15000",
		Description:      strings.Repeat("x", 201),
	}

	_, err := form.Validate()

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, FieldErrors{
		{Field: FieldRecipientAccount, Message: "String must contain at most 20 character(s)"},
		{Field: FieldRecipientName, Message: "Recipient name is required"},
		{Field: FieldAmount, Message: "Maximum transfer amount is $10,000"},
		{Field: FieldDescription, Message: "String must contain at most 200 character(s)"},
	}, fieldErrs)
}

func TestTransferForm_Validate_NameAndDescriptionLimits(t *testing.T) {
	form := validForm()
	form.RecipientName = strings.Repeat("n", 100)
	form.Description = strings.Repeat("d", 200)
	_, err := form.Validate()
	assert.NoError(t, err)

	form.RecipientName = strings.Repeat("n", 101)
	_, err = form.Validate()
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "String must contain at most 100 character(s)", fieldErrs[0].Message)
}

func TestTransferForm_Validate_CountsCharactersNotBytes(t *testing.T) {
	form := validForm()
	form.RecipientName = "Zoë"
	form.Description = strings.Repeat("é", 200)

	_, err := form.Validate()
	assert.NoError(t, err)
}

func TestTransferForm_Validate_RoundsToCents(t *testing.T) {
	form := validForm()
	form.Amount = "50.126"

	req, err := form.Validate()
	require.NoError(t, err)
	assert.Equal(t, "50.13", req.Amount.StringFixed(2))
	assert.Equal(t, "Jo", req.RecipientName)
	assert.Equal(t, "1234567890", req.RecipientAccount)
}

func TestNormalizeAccountNumber(t *testing.T) {
	assert.Equal(t, "1234567890", NormalizeAccountNumber("1234-5678 90"))
	assert.Equal(t, "", NormalizeAccountNumber("abc"))
	assert.Equal(t, "42", NormalizeAccountNumber("٤4x2"))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "12.50", want: "12.5"},
		{raw: "  7 ", want: "7"},
		{raw: "12abc", want: "0"},
		{raw: "$12", want: "0"},
		{raw: "1,000", want: "0"},
		{raw: "", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAmount(tt.raw).String())
		})
	}
}
