// Package seed loads catalog, account and order fixtures from YAML and
// writes them to a store.
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/spanner"
	"gopkg.in/yaml.v3"

	mdomain "github.com/THXNXKXT/qr-studios-sub001/internal/app/membership/domain"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_order"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_order_item"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_product"
	"github.com/THXNXKXT/qr-studios-sub001/internal/models/m_user"
)

var ErrInvalidFixture = errors.New("invalid fixture")

// Fixture is the YAML document.
type Fixture struct {
	Products []Product `yaml:"products"`
	Users    []User    `yaml:"users"`
	Orders   []Order   `yaml:"orders"`
}

type Product struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Price        string `yaml:"price"`
	RewardPoints *int64 `yaml:"reward_points"`
}

type User struct {
	ID       string  `yaml:"id"`
	Username string  `yaml:"username"`
	Avatar   *string `yaml:"avatar"`
	Role     string  `yaml:"role"`
}

type Order struct {
	ID     string `yaml:"id"`
	UserID string `yaml:"user_id"`
	// Status defaults to COMPLETED.
	Status string `yaml:"status"`
	Items  []Item `yaml:"items"`
}

type Item struct {
	ProductID string `yaml:"product_id"`
	Quantity  int64  `yaml:"quantity"`
}

// Decode reads a fixture. Unknown keys are rejected.
func Decode(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFixture, err)
	}
	return &f, nil
}

// LoadFile reads and decodes the fixture at path.
func LoadFile(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture: %w", err)
	}
	defer file.Close()
	return Decode(file)
}

// Rows is a validated fixture in table form. Order totals are the sum of
// their lines at the product's price.
type Rows struct {
	Products []*m_product.Data
	Users    []*m_user.Data
	Orders   []*m_order.Data
	Items    []*m_order_item.Data
}

// Rows validates the fixture and converts it to table rows.
func (f *Fixture) Rows() (*Rows, error) {
	rows := &Rows{}
	prices := make(map[string]*mdomain.Money, len(f.Products))

	for _, p := range f.Products {
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("%w: product needs id and name", ErrInvalidFixture)
		}
		if _, dup := prices[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product %s", ErrInvalidFixture, p.ID)
		}
		price, err := mdomain.ParseMoney(p.Price)
		if err != nil || price.IsNegative() {
			return nil, fmt.Errorf("%w: product %s has invalid price %q", ErrInvalidFixture, p.ID, p.Price)
		}
		if p.RewardPoints != nil && *p.RewardPoints < 0 {
			return nil, fmt.Errorf("%w: product %s has negative reward points", ErrInvalidFixture, p.ID)
		}
		num, den, err := fraction(price)
		if err != nil {
			return nil, fmt.Errorf("%w: product %s: %v", ErrInvalidFixture, p.ID, err)
		}
		prices[p.ID] = price

		data := &m_product.Data{ProductID: p.ID, Name: p.Name, PriceNumerator: num, PriceDenominator: den}
		if p.RewardPoints != nil {
			data.RewardPoints = spanner.NullInt64{Int64: *p.RewardPoints, Valid: true}
		}
		rows.Products = append(rows.Products, data)
	}

	users := make(map[string]bool, len(f.Users))
	for _, u := range f.Users {
		if u.ID == "" || u.Username == "" {
			return nil, fmt.Errorf("%w: user needs id and username", ErrInvalidFixture)
		}
		if users[u.ID] {
			return nil, fmt.Errorf("%w: duplicate user %s", ErrInvalidFixture, u.ID)
		}
		role := u.Role
		if role == "" {
			role = m_user.RoleUser
		}
		if role != m_user.RoleUser && role != m_user.RoleAdmin {
			return nil, fmt.Errorf("%w: user %s has unknown role %q", ErrInvalidFixture, u.ID, u.Role)
		}
		users[u.ID] = true

		data := &m_user.Data{UserID: u.ID, Username: u.Username, Role: role}
		if u.Avatar != nil {
			data.Avatar = spanner.NullString{StringVal: *u.Avatar, Valid: true}
		}
		rows.Users = append(rows.Users, data)
	}

	orders := make(map[string]bool, len(f.Orders))
	for _, o := range f.Orders {
		if o.ID == "" || orders[o.ID] {
			return nil, fmt.Errorf("%w: order id %q is missing or duplicated", ErrInvalidFixture, o.ID)
		}
		if !users[o.UserID] {
			return nil, fmt.Errorf("%w: order %s references unknown user %q", ErrInvalidFixture, o.ID, o.UserID)
		}
		status := o.Status
		if status == "" {
			status = m_order.StatusCompleted
		}
		switch status {
		case m_order.StatusPending, m_order.StatusCompleted, m_order.StatusCancelled, m_order.StatusRefunded:
		default:
			return nil, fmt.Errorf("%w: order %s has unknown status %q", ErrInvalidFixture, o.ID, o.Status)
		}
		orders[o.ID] = true

		total := mdomain.Zero()
		lines := make(map[string]bool, len(o.Items))
		for _, item := range o.Items {
			price, ok := prices[item.ProductID]
			if !ok {
				return nil, fmt.Errorf("%w: order %s references unknown product %q", ErrInvalidFixture, o.ID, item.ProductID)
			}
			if item.Quantity <= 0 || lines[item.ProductID] {
				return nil, fmt.Errorf("%w: order %s has an invalid line for %s", ErrInvalidFixture, o.ID, item.ProductID)
			}
			lines[item.ProductID] = true
			total = total.Add(price.MultiplyByInt(item.Quantity))

			num, den, _ := fraction(price)
			rows.Items = append(rows.Items, &m_order_item.Data{
				OrderID:              o.ID,
				ProductID:            item.ProductID,
				Quantity:             item.Quantity,
				UnitPriceNumerator:   num,
				UnitPriceDenominator: den,
			})
		}

		num, den, err := fraction(total)
		if err != nil {
			return nil, fmt.Errorf("%w: order %s: %v", ErrInvalidFixture, o.ID, err)
		}
		rows.Orders = append(rows.Orders, &m_order.Data{
			OrderID:          o.ID,
			UserID:           o.UserID,
			Status:           status,
			TotalNumerator:   num,
			TotalDenominator: den,
		})
	}

	return rows, nil
}

func fraction(m *mdomain.Money) (int64, int64, error) {
	num, okNum := m.Numerator()
	den, okDen := m.Denominator()
	if !okNum || !okDen {
		return 0, 0, fmt.Errorf("amount %s overflows int64", m.String())
	}
	return num, den, nil
}
