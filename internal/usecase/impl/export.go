package impl

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"userhub/internal/domain/entity"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/errors"
	"userhub/internal/usecase"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeader = []string{
	"ID", "First Name", "Last Name", "Username", "Email",
	"Role", "Active", "Email Verified", "Created At", "Last Login At",
}

// exportRecord is the serialized shape of one account in JSON exports.
// Credentials never leave the persistence layer through an export.
type exportRecord struct {
	ID            uint64     `json:"id"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	Active        bool       `json:"active"`
	EmailVerified bool       `json:"emailVerified"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
}

// renderExport serializes accounts into the requested format.
func renderExport(accounts []*entity.Account, format usecase.ExportFormat) (*usecase.ExportOutput, error) {
	stamp := time.Now().Format("20060102")

	switch format {
	case usecase.ExportCSV:
		content, err := renderCSV(accounts)
		if err != nil {
			return nil, err
		}

		return &usecase.ExportOutput{
			Filename:    fmt.Sprintf("accounts-%s.csv", stamp),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	case usecase.ExportJSON:
		content, err := renderJSON(accounts)
		if err != nil {
			return nil, err
		}

		return &usecase.ExportOutput{
			Filename:    fmt.Sprintf("accounts-%s.json", stamp),
			ContentType: "application/json",
			Content:     content,
		}, nil
	case usecase.ExportExcel:
		content, err := renderExcel(accounts)
		if err != nil {
			return nil, err
		}

		return &usecase.ExportOutput{
			Filename:    fmt.Sprintf("accounts-%s.xlsx", stamp),
			ContentType: excelContentType,
			Content:     content,
		}, nil
	default:
		return nil, domainerrors.ErrUnsupportedFormat.WithDetails(fmt.Sprintf("format %q", format))
	}
}

func exportRow(account *entity.Account) []string {
	lastLogin := ""
	if account.LastLoginAt != nil {
		lastLogin = account.LastLoginAt.Format(time.RFC3339)
	}

	return []string{
		strconv.FormatUint(account.ID, 10),
		account.FirstName,
		account.LastName,
		account.Username,
		account.Email,
		string(account.Role),
		strconv.FormatBool(account.Active),
		strconv.FormatBool(account.EmailVerified),
		account.CreatedAt.Format(time.RFC3339),
		lastLogin,
	}
}

func renderCSV(accounts []*entity.Account) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeader); err != nil {
		return nil, errors.Wrap(err, "failed to write csv header")
	}
	for _, account := range accounts {
		if err := writer.Write(exportRow(account)); err != nil {
			return nil, errors.Wrap(err, "failed to write csv row")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to flush csv output")
	}

	return buf.Bytes(), nil
}

func renderJSON(accounts []*entity.Account) ([]byte, error) {
	records := make([]exportRecord, 0, len(accounts))
	for _, account := range accounts {
		records = append(records, exportRecord{
			ID:            account.ID,
			FirstName:     account.FirstName,
			LastName:      account.LastName,
			Username:      account.Username,
			Email:         account.Email,
			Role:          string(account.Role),
			Active:        account.Active,
			EmailVerified: account.EmailVerified,
			CreatedAt:     account.CreatedAt,
			LastLoginAt:   account.LastLoginAt,
		})
	}

	content, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal json export")
	}

	return content, nil
}

func renderExcel(accounts []*entity.Account) ([]byte, error) {
	workbook := excelize.NewFile()
	defer workbook.Close()

	const sheet = "Accounts"
	index, err := workbook.NewSheet(sheet)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create worksheet")
	}
	workbook.SetActiveSheet(index)
	if err := workbook.DeleteSheet("Sheet1"); err != nil {
		return nil, errors.Wrap(err, "failed to drop default worksheet")
	}

	header := make([]any, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := workbook.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, errors.Wrap(err, "failed to write worksheet header")
	}

	for i, account := range accounts {
		cells := exportRow(account)
		row := make([]any, len(cells))
		for j, cell := range cells {
			row[j] = cell
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, errors.Wrap(err, "failed to compute cell coordinates")
		}
		if err := workbook.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, errors.Wrap(err, "failed to write worksheet row")
		}
	}

	var buf bytes.Buffer
	if err := workbook.Write(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to serialize workbook")
	}

	return buf.Bytes(), nil
}
