package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"github.com/sangkips/brewpos-api/internal/domain/repository"
	"github.com/sangkips/brewpos-api/pkg/apperror"
	"github.com/sangkips/brewpos-api/pkg/pagination"
	"github.com/sangkips/brewpos-api/pkg/utils"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var (
	pinPattern  = regexp.MustCompile(`^[0-9]{4,6}$`)
	ibanPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{11,30}$`)
)

const minPasswordLength = 8

// StaffService handles staff management
type StaffService struct {
	staffRepo repository.StaffRepository
	log       *zap.Logger
}

// NewStaffService creates a new staff service
func NewStaffService(staffRepo repository.StaffRepository, log *zap.Logger) *StaffService {
	return &StaffService{
		staffRepo: staffRepo,
		log:       loggerOrNop(log),
	}
}

// CreateStaffInput represents the create staff input
type CreateStaffInput struct {
	Name     string
	Email    string
	Role     enum.StaffRole
	Password string
	PIN      string
	Personal entity.PersonalInfo
	Bank     entity.BankInfo
	Grants   []string
}

// UpdateStaffInput represents the update staff input. Nil fields are left
// unchanged; Personal, Bank and Grants replace the stored value as a whole.
type UpdateStaffInput struct {
	Name     *string
	Role     *enum.StaffRole
	Password *string
	PIN      *string
	Personal *entity.PersonalInfo
	Bank     *entity.BankInfo
	Grants   *[]string
}

// CreateStaff adds a staff member to the store in the context
func (s *StaffService) CreateStaff(ctx context.Context, input *CreateStaffInput) (*entity.Staff, error) {
	storeID, err := storeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var fieldErrors []apperror.FieldError
	name := strings.TrimSpace(input.Name)
	if name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "is required"})
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "email", Message: "must be a valid email"})
	}
	if !input.Role.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "role", Message: "must be admin, manager or cashier"})
	}
	if len(input.Password) < minPasswordLength {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "password", Message: "must be at least 8 characters"})
	}
	if input.PIN != "" && !pinPattern.MatchString(input.PIN) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "pin", Message: "must be 4 to 6 digits"})
	}
	personal, errs := normalizePersonal(input.Personal)
	fieldErrors = append(fieldErrors, errs...)
	bank, errs := normalizeBank(input.Bank)
	fieldErrors = append(fieldErrors, errs...)
	grants, errs := normalizeGrants(input.Grants)
	fieldErrors = append(fieldErrors, errs...)
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	existing, err := s.staffRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	staff := &entity.Staff{
		StoreID:  storeID,
		Name:     name,
		Email:    email,
		Role:     input.Role,
		Active:   true,
		Personal: personal,
		Bank:     bank,
		Grants:   grants,
	}
	if staff.PasswordHash, err = utils.HashPassword(input.Password); err != nil {
		return nil, err
	}
	if input.PIN != "" {
		if err := s.ensurePINFree(ctx, input.PIN, uuid.Nil); err != nil {
			return nil, err
		}
		if staff.PINHash, err = utils.HashPassword(input.PIN); err != nil {
			return nil, err
		}
	}

	if err := s.staffRepo.Create(ctx, staff); err != nil {
		return nil, err
	}
	s.log.Info("staff created",
		zap.String("store_id", storeID.String()),
		zap.String("staff_id", staff.ID.String()),
		zap.String("role", string(staff.Role)),
	)
	return staff, nil
}

// GetStaff retrieves a staff member of the store in the context
func (s *StaffService) GetStaff(ctx context.Context, id uuid.UUID) (*entity.Staff, error) {
	storeID, err := storeFromContext(ctx)
	if err != nil {
		return nil, err
	}
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if staff == nil || staff.StoreID != storeID {
		return nil, apperror.NewNotFoundError("Staff")
	}
	return staff, nil
}

// ListStaff lists the store's staff
func (s *StaffService) ListStaff(ctx context.Context, params *repository.StaffFilterParams) (*pagination.PaginatedResult[entity.Staff], error) {
	staff, total, err := s.staffRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(staff, pag), nil
}

// UpdateStaff updates a staff member
func (s *StaffService) UpdateStaff(ctx context.Context, id uuid.UUID, input *UpdateStaffInput) (*entity.Staff, error) {
	staff, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewFieldError("name", "is required")
		}
		staff.Name = name
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, apperror.NewFieldError("role", "must be admin, manager or cashier")
		}
		staff.Role = *input.Role
	}
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, apperror.NewFieldError("password", "must be at least 8 characters")
		}
		if staff.PasswordHash, err = utils.HashPassword(*input.Password); err != nil {
			return nil, err
		}
	}
	if input.PIN != nil {
		if !pinPattern.MatchString(*input.PIN) {
			return nil, apperror.NewFieldError("pin", "must be 4 to 6 digits")
		}
		if err := s.ensurePINFree(ctx, *input.PIN, staff.ID); err != nil {
			return nil, err
		}
		if staff.PINHash, err = utils.HashPassword(*input.PIN); err != nil {
			return nil, err
		}
	}

	var fieldErrors []apperror.FieldError
	if input.Personal != nil {
		personal, errs := normalizePersonal(*input.Personal)
		fieldErrors = append(fieldErrors, errs...)
		staff.Personal = personal
	}
	if input.Bank != nil {
		bank, errs := normalizeBank(*input.Bank)
		fieldErrors = append(fieldErrors, errs...)
		staff.Bank = bank
	}
	if input.Grants != nil {
		grants, errs := normalizeGrants(*input.Grants)
		fieldErrors = append(fieldErrors, errs...)
		staff.Grants = grants
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	if err := s.staffRepo.Update(ctx, staff); err != nil {
		return nil, err
	}
	if input.Grants != nil {
		s.log.Info("staff permissions changed",
			zap.String("staff_id", staff.ID.String()),
			zap.Strings("grants", staff.Grants),
		)
	}
	return staff, nil
}

// DeactivateStaff disables a staff member's sign-in. Staff records are kept
// because sales and presence entries refer to them.
func (s *StaffService) DeactivateStaff(ctx context.Context, actor Actor, id uuid.UUID) (*entity.Staff, error) {
	if actor.StaffID == id {
		return nil, apperror.NewBadRequestError("You cannot deactivate your own account")
	}
	staff, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	if !staff.Active {
		return staff, nil
	}

	staff.Active = false
	if err := s.staffRepo.Update(ctx, staff); err != nil {
		return nil, err
	}
	s.log.Info("staff deactivated",
		zap.String("staff_id", staff.ID.String()),
		zap.String("by", actor.StaffID.String()),
	)
	return staff, nil
}

// ensurePINFree rejects a PIN already used by another active staff member
// of the store, since the till identifies staff by PIN alone
func (s *StaffService) ensurePINFree(ctx context.Context, pin string, self uuid.UUID) error {
	staff, err := s.staffRepo.ListActive(ctx)
	if err != nil {
		return err
	}
	for _, other := range staff {
		if other.ID != self && utils.CheckPasswordHash(pin, other.PINHash) {
			return apperror.NewConflictError("PIN already in use")
		}
	}
	return nil
}

func normalizePersonal(in entity.PersonalInfo) (entity.PersonalInfo, []apperror.FieldError) {
	out := entity.PersonalInfo{
		Phone:            strings.TrimSpace(in.Phone),
		Address:          strings.TrimSpace(in.Address),
		DateOfBirth:      strings.TrimSpace(in.DateOfBirth),
		NationalID:       strings.TrimSpace(in.NationalID),
		EmergencyContact: strings.TrimSpace(in.EmergencyContact),
	}
	if out.DateOfBirth != "" {
		if _, err := time.Parse(dateOfBirthLayout, out.DateOfBirth); err != nil {
			return out, []apperror.FieldError{{Field: "personal_info.date_of_birth", Message: "must be YYYY-MM-DD"}}
		}
	}
	return out, nil
}

func normalizeBank(in entity.BankInfo) (entity.BankInfo, []apperror.FieldError) {
	out := entity.BankInfo{
		BankName:      strings.TrimSpace(in.BankName),
		AccountHolder: strings.TrimSpace(in.AccountHolder),
		IBAN:          strings.ToUpper(strings.ReplaceAll(in.IBAN, " ", "")),
	}
	if out.IBAN != "" && !ibanPattern.MatchString(out.IBAN) {
		return out, []apperror.FieldError{{Field: "bank_info.iban", Message: "must be a valid IBAN"}}
	}
	return out, nil
}

// normalizeGrants lowercases, dedupes and checks permission names
func normalizeGrants(grants []string) ([]string, []apperror.FieldError) {
	out := make([]string, 0, len(grants))
	seen := make(map[string]bool, len(grants))
	for _, g := range grants {
		g = strings.ToLower(strings.TrimSpace(g))
		if g == "" || seen[g] {
			continue
		}
		if !enum.IsPermission(g) {
			return nil, []apperror.FieldError{{Field: "permission_grants", Message: fmt.Sprintf("unknown permission %q", g)}}
		}
		seen[g] = true
		out = append(out, g)
	}
	return out, nil
}

const (
	dateOfBirthLayout = "2006-01-02"
	staffSheet        = "Staff"
)

var staffColumns = []string{
	"id", "name", "email", "role", "active",
	"phone", "address", "date_of_birth", "national_id", "emergency_contact",
	"bank_name", "account_holder", "iban", "permissions",
}

// ExportStaff writes the personnel records matching params in the given format
func (s *StaffService) ExportStaff(ctx context.Context, params *repository.StaffFilterParams, format string, w io.Writer) error {
	if format != ExportCSV && format != ExportXLSX {
		return apperror.NewFieldError("format", "must be csv or xlsx")
	}
	if _, err := storeFromContext(ctx); err != nil {
		return err
	}

	params.Pagination = nil
	staff, _, err := s.staffRepo.List(ctx, params)
	if err != nil {
		return err
	}

	if format == ExportXLSX {
		return writeStaffXLSX(staff, w)
	}
	return writeStaffCSV(staff, w)
}

func staffRecord(m entity.Staff) []string {
	return []string{
		m.ID.String(),
		m.Name,
		m.Email,
		string(m.Role),
		strconv.FormatBool(m.Active),
		m.Personal.Phone,
		m.Personal.Address,
		m.Personal.DateOfBirth,
		m.Personal.NationalID,
		m.Personal.EmergencyContact,
		m.Bank.BankName,
		m.Bank.AccountHolder,
		m.Bank.IBAN,
		strings.Join(m.Permissions(), ";"),
	}
}

func writeStaffCSV(staff []entity.Staff, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(staffColumns); err != nil {
		return err
	}
	for _, m := range staff {
		if err := cw.Write(staffRecord(m)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeStaffXLSX(staff []entity.Staff, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", staffSheet); err != nil {
		return err
	}
	rows := make([][]string, 0, len(staff)+1)
	rows = append(rows, staffColumns)
	for _, m := range staff {
		rows = append(rows, staffRecord(m))
	}
	for i, rec := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		if err := f.SetSheetRow(staffSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
