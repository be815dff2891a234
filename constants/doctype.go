package constants

// FormType is the classification outcome for an uploaded scan.
type FormType string

// Stable values (store these exact strings in DB).
const (
	FormPrescription FormType = "prescription"
	FormBulletin     FormType = "bulletin_de_soin"
	FormUnknown      FormType = "unknown"
)

// FormTypes holds the allowed values for the doc_type field in uploads.
var FormTypes = []string{
	string(FormPrescription),
	string(FormBulletin),
	string(FormUnknown),
}

// ModelID maps a form type to the extraction-service model trained for it.
func (t FormType) ModelID() string {
	switch t {
	case FormBulletin:
		return "bulletin_de_soin"
	default:
		return "ordonnance"
	}
}
