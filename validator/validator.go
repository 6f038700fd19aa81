package validator

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"stocks-tracker-web/customerrors"
	"stocks-tracker-web/market"
	"stocks-tracker-web/models"

	"github.com/Oudwins/zog"
)

const dateLayout = "2006-01-02"

var (
	symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-]{1,10}$`)
	datePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	emailSchema = zog.String().Email(zog.Message("Please enter a valid email address"))
	ageSchema   = zog.Int().GT(18, zog.Message("Age must be greater than 18"))

	passwordSchema = zog.String().
			Min(8, zog.Message("Password must be at least 8 characters")).
			ContainsUpper(zog.Message("Password must contain an uppercase letter")).
			ContainsDigit(zog.Message("Password must contain a number"))

	symbolSchema   = zog.String().Match(symbolPattern, zog.Message("Invalid stock symbol"))
	quantitySchema = zog.Int().GT(0, zog.Message("Quantity must be greater than 0"))
	priceSchema    = zog.Float64().GT(0, zog.Message("Buy price must be greater than 0"))
	dateSchema     = zog.String().Match(datePattern, zog.Message("Buy date must be YYYY-MM-DD"))
)

func invalid(issues zog.ZogIssueList) error {
	if len(issues) == 0 {
		return nil
	}
	return customerrors.New(http.StatusBadRequest, issues[0].Message)
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// Login checks that both credentials were filled in.
func Login(req *models.LoginRequest) error {
	req.UserID = strings.TrimSpace(req.UserID)
	if blank(req.UserID, req.Password) {
		return customerrors.ErrIncompleteLogin
	}
	return nil
}

// Register checks the registration form, reporting the first failing field.
func Register(req *models.RegisterRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.UserID = strings.TrimSpace(req.UserID)
	if blank(req.Name, req.Email, req.UserID, req.Password) {
		return customerrors.ErrIncompleteLogin
	}
	if err := invalid(emailSchema.Validate(&req.Email)); err != nil {
		return err
	}
	if err := invalid(ageSchema.Validate(&req.Age)); err != nil {
		return err
	}
	return invalid(passwordSchema.Validate(&req.Password))
}

// Holding checks the add-holding form. The symbol is normalized in place.
func Holding(h *models.Holding) error {
	h.Symbol = market.Normalize(h.Symbol)
	h.BuyDate = strings.TrimSpace(h.BuyDate)
	if h.Symbol == "" || h.Quantity == 0 || h.BuyPrice == 0 || h.BuyDate == "" {
		return customerrors.ErrIncompleteForm
	}
	if err := invalid(symbolSchema.Validate(&h.Symbol)); err != nil {
		return err
	}
	if err := invalid(quantitySchema.Validate(&h.Quantity)); err != nil {
		return err
	}
	if err := invalid(priceSchema.Validate(&h.BuyPrice)); err != nil {
		return err
	}
	if err := invalid(dateSchema.Validate(&h.BuyDate)); err != nil {
		return err
	}
	if _, err := time.Parse(dateLayout, h.BuyDate); err != nil {
		return customerrors.New(http.StatusBadRequest, "Buy date must be YYYY-MM-DD")
	}
	return nil
}

// Symbol normalizes a search term and rejects an empty one.
func Symbol(raw string) (string, error) {
	symbol := market.Normalize(raw)
	if symbol == "" {
		return "", customerrors.ErrEmptySymbol
	}
	return symbol, nil
}
