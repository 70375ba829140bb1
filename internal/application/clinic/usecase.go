package clinic

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/farmacia-admin/internal/application/dto"
	"github.com/jhoicas/farmacia-admin/internal/application/ports"
	"github.com/jhoicas/farmacia-admin/internal/application/session"
	"github.com/jhoicas/farmacia-admin/internal/application/validation"
	"github.com/jhoicas/farmacia-admin/internal/domain"
	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

// ClinicUseCase pacientes de consulta externa, sus visitas y el resumen financiero.
type ClinicUseCase struct {
	api ports.ClinicAPI
	log zerolog.Logger
}

// NewClinicUseCase construye el caso de uso.
func NewClinicUseCase(api ports.ClinicAPI, log zerolog.Logger) *ClinicUseCase {
	return &ClinicUseCase{api: api, log: log}
}

// Patients lista los pacientes.
func (uc *ClinicUseCase) Patients(ctx context.Context, sess *session.Session) (*dto.PatientListResponse, error) {
	if err := requireScreen(sess, entity.ScreenPatients); err != nil {
		return nil, err
	}
	list, err := uc.api.ListPatients(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	out := &dto.PatientListResponse{Items: make([]dto.PatientResponse, 0, len(list)), Total: len(list)}
	for _, p := range list {
		out.Items = append(out.Items, toPatientResponse(p))
	}
	return out, nil
}

// Patient obtiene un paciente.
func (uc *ClinicUseCase) Patient(ctx context.Context, sess *session.Session, id string) (*dto.PatientResponse, error) {
	if err := requireScreen(sess, entity.ScreenPatients); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewValidationError("id", "id es obligatorio")
	}
	p, err := uc.api.GetPatient(ctx, sess.Token, id)
	if err != nil {
		return nil, err
	}
	out := toPatientResponse(*p)
	return &out, nil
}

// CreatePatient registra un paciente.
func (uc *ClinicUseCase) CreatePatient(ctx context.Context, sess *session.Session, in dto.PatientRequest) (*dto.PatientResponse, error) {
	if err := requireScreen(sess, entity.ScreenPatients); err != nil {
		return nil, err
	}
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	input := ports.PatientInput{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Gender:    in.Gender,
	}
	if in.DateOfBirth != "" {
		// formato ya validado
		input.DateOfBirth, _ = time.Parse("2006-01-02", in.DateOfBirth)
		if input.DateOfBirth.After(time.Now()) {
			return nil, domain.NewValidationError("date_of_birth", "date_of_birth no puede ser futura")
		}
	}
	p, err := uc.api.CreatePatient(ctx, sess.Token, input)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("patient_id", p.ID).Msg("paciente registrado")
	out := toPatientResponse(*p)
	return &out, nil
}

// Visits lista las consultas de un paciente.
func (uc *ClinicUseCase) Visits(ctx context.Context, sess *session.Session, patientID string) (*dto.VisitListResponse, error) {
	if err := requireScreen(sess, entity.ScreenPatients); err != nil {
		return nil, err
	}
	if strings.TrimSpace(patientID) == "" {
		return nil, domain.NewValidationError("patient_id", "patient_id es obligatorio")
	}
	list, err := uc.api.ListVisits(ctx, sess.Token, patientID)
	if err != nil {
		return nil, err
	}
	out := &dto.VisitListResponse{Items: make([]dto.VisitResponse, 0, len(list)), Total: len(list)}
	for _, v := range list {
		out.Items = append(out.Items, toVisitResponse(v))
	}
	return out, nil
}

// CreateVisit registra una consulta del paciente.
func (uc *ClinicUseCase) CreateVisit(ctx context.Context, sess *session.Session, patientID string, in dto.VisitRequest) (*dto.VisitResponse, error) {
	if err := requireScreen(sess, entity.ScreenPatients); err != nil {
		return nil, err
	}
	in.Reason = strings.TrimSpace(in.Reason)
	in.Notes = strings.TrimSpace(in.Notes)
	var missing error
	if strings.TrimSpace(patientID) == "" {
		missing = domain.NewValidationError("patient_id", "patient_id es obligatorio")
	}
	if err := validation.Merge(missing, validation.Struct(in)); err != nil {
		return nil, err
	}
	v, err := uc.api.CreateVisit(ctx, sess.Token, ports.VisitInput{PatientID: patientID, Reason: in.Reason, Notes: in.Notes})
	if err != nil {
		return nil, err
	}
	out := toVisitResponse(*v)
	return &out, nil
}

// Finance resumen de ventas, compras y saldo pendiente.
func (uc *ClinicUseCase) Finance(ctx context.Context, sess *session.Session) (*dto.FinanceResponse, error) {
	if err := requireScreen(sess, entity.ScreenFinance); err != nil {
		return nil, err
	}
	f, err := uc.api.FinanceSummary(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	return &dto.FinanceResponse{
		TotalSales:         f.TotalSales,
		TotalPurchases:     f.TotalPurchases,
		OutstandingBalance: f.OutstandingBalance,
		GrossMargin:        f.TotalSales.Sub(f.TotalPurchases).Round(2),
	}, nil
}

func requireScreen(sess *session.Session, screen string) error {
	if !sess.User().CanSee(screen) {
		return domain.ErrForbidden
	}
	return nil
}

func toPatientResponse(p entity.Patient) dto.PatientResponse {
	out := dto.PatientResponse{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		FullName:  strings.TrimSpace(p.FirstName + " " + p.LastName),
		Phone:     p.Phone,
		Gender:    p.Gender,
	}
	if !p.DateOfBirth.IsZero() {
		t := p.DateOfBirth
		out.DateOfBirth = &t
	}
	if !p.CreatedAt.IsZero() {
		t := p.CreatedAt
		out.CreatedAt = &t
	}
	return out
}

func toVisitResponse(v entity.Visit) dto.VisitResponse {
	out := dto.VisitResponse{ID: v.ID, PatientID: v.PatientID, Reason: v.Reason, Notes: v.Notes}
	if !v.CreatedAt.IsZero() {
		t := v.CreatedAt
		out.CreatedAt = &t
	}
	return out
}
