package i18n

// Keys into a locale table.
const (
	KeyTitle               = "form.title"
	KeySubtitle            = "form.subtitle"
	KeyName                = "form.name"
	KeyNamePlaceholder     = "form.name.placeholder"
	KeyAge                 = "form.age"
	KeyAgePlaceholder      = "form.age.placeholder"
	KeySymptoms            = "form.symptoms"
	KeySymptomsPlaceholder = "form.symptoms.placeholder"
	KeyLanguage            = "form.language"
	KeySubmit              = "form.submit"
	KeyAnalyzing           = "form.analyzing"
	KeyMic                 = "form.mic"
	KeyListening           = "form.listening"

	KeyResultTitle   = "result.title"
	KeySeverityLabel = "result.severity"
	KeyNewSubmission = "result.new"
	KeySpeak         = "result.speak"
	KeyStopSpeaking  = "result.stop"

	KeyErrorPrefix      = "error.prefix"
	KeyTransportFailure = "error.transport"
	KeyUnknownAppError  = "error.application"

	KeyDashboardTitle = "dashboard.title"
	KeyLoading        = "dashboard.loading"
	KeyNoData         = "dashboard.empty"
	KeyLoadFailed     = "dashboard.loadFailed"
	KeyPageInfo       = "dashboard.page"
	KeyPrev           = "dashboard.prev"
	KeyNext           = "dashboard.next"
	KeyFilterAll      = "dashboard.all"
	KeyUnknown        = "dashboard.unknown"

	KeyColumnTimestamp = "column.timestamp"
	KeyColumnName      = "column.name"
	KeyColumnAge       = "column.age"
	KeyColumnLanguage  = "column.language"
	KeyColumnSeverity  = "column.severity"
	KeyColumnSymptoms  = "column.symptoms"
)

// StaticKeys lists every key swapped when the UI language changes.
func StaticKeys() []string {
	return []string{
		KeyTitle, KeySubtitle,
		KeyName, KeyNamePlaceholder,
		KeyAge, KeyAgePlaceholder,
		KeySymptoms, KeySymptomsPlaceholder,
		KeyLanguage, KeySubmit, KeyAnalyzing, KeyMic, KeyListening,
		KeyResultTitle, KeySeverityLabel, KeyNewSubmission, KeySpeak, KeyStopSpeaking,
		KeyErrorPrefix, KeyTransportFailure, KeyUnknownAppError,
		KeyDashboardTitle, KeyLoading, KeyNoData, KeyLoadFailed, KeyPageInfo,
		KeyPrev, KeyNext, KeyFilterAll, KeyUnknown,
		KeyColumnTimestamp, KeyColumnName, KeyColumnAge,
		KeyColumnLanguage, KeyColumnSeverity, KeyColumnSymptoms,
	}
}
