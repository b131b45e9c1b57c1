package handlers

import (
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/services"
)

const keptSuffix = "_existente"

// employeeFromForm splits a com-anexos form into the employee fields and the attachment upload.
// Multipart values are strings, so pj becomes a bool and filhos a number; repeated keys and
// keys ending in [] become lists.
func employeeFromForm(form *multipart.Form) (map[string]interface{}, *services.AttachmentUpload) {
	input := make(map[string]interface{}, len(form.Value))
	upload := &services.AttachmentUpload{
		Kept:  make(map[string][]string),
		Files: make(map[string][]*multipart.FileHeader),
	}

	for key, values := range form.Value {
		name := strings.TrimSuffix(key, "[]")
		if field := strings.TrimSuffix(name, keptSuffix); field != name && models.IsAttachmentField(field) {
			upload.Kept[field] = append(upload.Kept[field], values...)
			continue
		}
		if models.IsAttachmentField(name) {
			// plain names sent where a file was expected count as kept references
			upload.Kept[name] = append(upload.Kept[name], values...)
			continue
		}
		if name == "arquivos" {
			continue
		}

		if name != key || len(values) > 1 {
			input[name] = values
			continue
		}
		input[name] = coerceFormValue(name, values[0])
	}

	for key, files := range form.File {
		name := strings.TrimSuffix(key, "[]")
		upload.Files[name] = append(upload.Files[name], files...)
	}
	return input, upload
}

func coerceFormValue(name, value string) interface{} {
	switch name {
	case "pj":
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "sim", "on":
			return true
		default:
			return false
		}
	case "filhos":
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
		return value
	}
	if value == "null" || value == "undefined" {
		return nil
	}
	return value
}
