package validator_test

import (
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"hallseat/shared/failure"
	"hallseat/shared/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color string

func (c color) IsValid() bool {
	return c == "RED" || c == "BLUE"
}

type sample struct {
	Email string `json:"email"  validate:"required,email"`
	Age   int    `json:"age"    validate:"gte=1,lte=10"`
	Color color  `json:"color"  validate:"enum"`
	Due   string `json:"due"    validate:"date"`
	File  string `json:"file"   validate:"omitempty,mimetypes=application/pdf image/png"`
}

// 0.001 MB is 1048 bytes once truncated.
type document struct {
	Data   string                `json:"data"   validate:"omitempty,maxfilesize=0.001"`
	Upload *multipart.FileHeader `json:"upload" validate:"omitempty,maxfilesize=1,mimetypes=application/pdf"`
}

type badParam struct {
	Data string `json:"data" validate:"maxfilesize=lots"`
}

type passwordChange struct {
	Password string `json:"password"         validate:"required,min=8"`
	Confirm  string `json:"confirm_password" validate:"required,eqfield=Password"`
}

func pdf(size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: "doc.pdf",
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": {"application/pdf"}},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"email":"a@b.co","age":3,"color":"RED","due":"2024-09-01"}`, ""},
		{"empty enum and date are allowed", `{"email":"a@b.co","age":3}`, ""},
		{"missing email", `{"age":3}`, "email is required"},
		{"bad email", `{"email":"nope","age":3}`, "email must be a valid email address"},
		{"age too low", `{"email":"a@b.co","age":0}`, "age must be greater than or equal to 1"},
		{"age too high", `{"email":"a@b.co","age":30}`, "age must be less than or equal to 10"},
		{"bad enum", `{"email":"a@b.co","age":3,"color":"GREEN"}`, "color has an unsupported value"},
		{"bad date", `{"email":"a@b.co","age":3,"due":"01/09/2024"}`, "due must be a date in YYYY-MM-DD format"},
		{"impossible date", `{"email":"a@b.co","age":3,"due":"2024-02-30"}`, "due must be a date in YYYY-MM-DD format"},
		{"allowed file type", `{"email":"a@b.co","age":3,"file":"data:image/png;base64,aGk="}`, ""},
		{"bad file type", `{"email":"a@b.co","age":3,"file":"data:text/plain;base64,aGk="}`, "file must be one of application/pdf image/png"},
		{"file without data uri", `{"email":"a@b.co","age":3,"file":"aGk="}`, "file must be one of application/pdf image/png"},
		{"malformed", `{"email":`, "failed to decode request body"},
		{"wrong type", `{"email":"a@b.co","age":"three"}`, "failed to decode request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data sample

			err := validator.Validate(strings.NewReader(tt.body), &data)
			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidateStruct_MaxFileSize(t *testing.T) {
	tests := []struct {
		name    string
		data    document
		wantErr string
	}{
		{"string at the limit", document{Data: strings.Repeat("a", 1048)}, ""},
		{"string over the limit", document{Data: strings.Repeat("a", 1049)}, "data must not exceed 0.001 MB"},
		{"upload at the limit", document{Upload: pdf(1024 * 1024)}, ""},
		{"upload over the limit", document{Upload: pdf(1024*1024 + 1)}, "upload must not exceed 1 MB"},
		{"nothing attached", document{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)
			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidateStruct_MaxFileSizeRejectsUnparsableLimit(t *testing.T) {
	err := validator.ValidateStruct(&badParam{Data: "a"})

	require.Error(t, err)
	assert.Equal(t, "data must not exceed lots MB", err.Error())
}

func TestValidateStruct_UploadMimeType(t *testing.T) {
	upload := pdf(10)
	upload.Header.Set("Content-Type", "application/zip")

	err := validator.ValidateStruct(&document{Upload: upload})

	require.Error(t, err)
	assert.Equal(t, "upload must be one of application/pdf", err.Error())
}

func TestValidateStruct_FieldComparison(t *testing.T) {
	assert.NoError(t, validator.ValidateStruct(&passwordChange{Password: "s3cretpass", Confirm: "s3cretpass"}))

	err := validator.ValidateStruct(&passwordChange{Password: "s3cretpass", Confirm: "other-pass"})
	require.Error(t, err)
	assert.Equal(t, "confirm_password must match Password", err.Error())

	err = validator.ValidateStruct(&passwordChange{Password: "short", Confirm: "short"})
	require.Error(t, err)
	assert.Equal(t, "password must be greater than or equal to 8", err.Error())
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name    string
		field   any
		tag     string
		wantErr bool
	}{
		{"uuid", "1b4e28ba-2fa1-11d2-883f-0016d3cca427", "uuid", false},
		{"not a uuid", "not-a-uuid", "uuid", true},
		{"oneof", "admin", "oneof=user admin", false},
		{"not oneof", "root", "oneof=user admin", true},
		{"empty tag matches zero value", "", "empty", false},
		{"empty tag rejects value", "x", "empty", true},
		{"date", "2024-01-31", "date", false},
		{"not a date", "2024-13-01", "date", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)
			if !tt.wantErr {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}
