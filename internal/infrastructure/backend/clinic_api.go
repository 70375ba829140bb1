package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jhoicas/farmacia-admin/internal/application/ports"
	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

var _ ports.ClinicAPI = (*Client)(nil)

type patientRequest struct {
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Phone       string   `json:"phone"`
	Gender      string   `json:"gender"`
	DateOfBirth wireTime `json:"date_of_birth"`
}

// ListPatients GET /patients.
func (c *Client) ListPatients(ctx context.Context, token string) ([]entity.Patient, error) {
	var out []wirePatient
	if err := c.do(ctx, http.MethodGet, "/patients", nil, &out, UseToken(token)); err != nil {
		return nil, err
	}
	if err := c.check("patients", listOf[wirePatient]{Items: out}); err != nil {
		return nil, err
	}
	list := make([]entity.Patient, 0, len(out))
	for _, p := range out {
		list = append(list, p.toEntity())
	}
	return list, nil
}

// CreatePatient POST /patients.
func (c *Client) CreatePatient(ctx context.Context, token string, in ports.PatientInput) (*entity.Patient, error) {
	req := patientRequest{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Phone:       in.Phone,
		Gender:      in.Gender,
		DateOfBirth: wireTime{in.DateOfBirth},
	}
	return c.patientRequest(ctx, http.MethodPost, "/patients", req, token)
}

// GetPatient GET /patients/{id}.
func (c *Client) GetPatient(ctx context.Context, token, id string) (*entity.Patient, error) {
	return c.patientRequest(ctx, http.MethodGet, "/patients/"+url.PathEscape(id), nil, token)
}

func (c *Client) patientRequest(ctx context.Context, method, path string, in any, token string) (*entity.Patient, error) {
	var out wirePatient
	if err := c.do(ctx, method, path, in, &out, UseToken(token)); err != nil {
		return nil, err
	}
	if err := c.check("patient", out); err != nil {
		return nil, err
	}
	p := out.toEntity()
	return &p, nil
}

// ListVisits GET /patients/{id}/visits.
func (c *Client) ListVisits(ctx context.Context, token, patientID string) ([]entity.Visit, error) {
	var out []wireVisit
	if err := c.do(ctx, http.MethodGet, "/patients/"+url.PathEscape(patientID)+"/visits", nil, &out, UseToken(token)); err != nil {
		return nil, err
	}
	if err := c.check("visits", listOf[wireVisit]{Items: out}); err != nil {
		return nil, err
	}
	list := make([]entity.Visit, 0, len(out))
	for _, v := range out {
		list = append(list, v.toEntity())
	}
	return list, nil
}

// CreateVisit POST /visits.
func (c *Client) CreateVisit(ctx context.Context, token string, in ports.VisitInput) (*entity.Visit, error) {
	var out wireVisit
	if err := c.do(ctx, http.MethodPost, "/visits", in, &out, UseToken(token)); err != nil {
		return nil, err
	}
	if err := c.check("visit", out); err != nil {
		return nil, err
	}
	v := out.toEntity()
	return &v, nil
}

// FinanceSummary GET /finance/summary.
func (c *Client) FinanceSummary(ctx context.Context, token string) (*entity.FinanceSummary, error) {
	var out wireFinance
	if err := c.do(ctx, http.MethodGet, "/finance/summary", nil, &out, UseToken(token)); err != nil {
		return nil, err
	}
	return &entity.FinanceSummary{
		TotalSales:         out.TotalSales,
		TotalPurchases:     out.TotalPurchases,
		OutstandingBalance: out.OutstandingBalance,
	}, nil
}
