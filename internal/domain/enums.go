package domain

type MediaType string

const (
	MediaImage   MediaType = "image"
	MediaVideo   MediaType = "video"
	MediaAudio   MediaType = "audio"
	MediaCaption MediaType = "caption"
)

// ValidMediaTypes is the canonical set of accepted media type strings.
var ValidMediaTypes = map[string]bool{
	"image": true, "video": true, "audio": true, "caption": true,
}

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionTrueFalse      QuestionType = "true-false"
	QuestionFillInBlank    QuestionType = "fill-in-the-blank"
)

// ValidQuestionTypes is the canonical set of accepted question type strings.
var ValidQuestionTypes = map[string]bool{
	"multiple-choice": true, "true-false": true, "fill-in-the-blank": true,
}

type CompletionCriteria string

const (
	CompletionAll     CompletionCriteria = "all"
	CompletionVisited CompletionCriteria = "visited"
)

// ValidCompletionCriteria is the canonical set of accepted completion criteria.
var ValidCompletionCriteria = map[string]bool{
	"all": true, "visited": true,
}

// ScormVersion12 is the only package version the builder emits.
const ScormVersion12 = "1.2"

// TemplateNone marks a seed that uses custom topics only.
const TemplateNone = "None"

// ContentFormat discriminates the two accepted course content shapes.
type ContentFormat string

const (
	FormatCurrent ContentFormat = "current"
	FormatLegacy  ContentFormat = "legacy"
)
