// Package e2e provides end-to-end tests with a bilingual corpus and query cases.
package e2e

import (
	"github.com/OuhabYouceff/RBOT/internal/models"
)

// QueryTestCase defines a query and the document ID(s) that must appear in
// retrieval results. At least one of ExpectedDocIDs must be present.
type QueryTestCase struct {
	Query          string
	Language       string
	ExpectedDocIDs []string
	Description    string
}

// Corpus holds documents and query test cases for end-to-end tests.
type Corpus struct {
	Texts        []string
	Documents    []models.Document
	TestCases    []QueryTestCase
	TotalDocs    int
	TotalQueries int
}

type corpusEntry struct {
	id      string
	code    string
	lang    string
	content string
}

var corpusEntries = []corpusEntry{
	{
		id: "RNE-Q-001_fr", code: "RNE-Q-001", lang: "fr",
		content: "Le capital minimum d'une SARL en Tunisie est de 1 000 dinars tunisiens. Il doit être déposé sur un compte bancaire bloqué au nom de la société en formation.",
	},
	{
		id: "RNE-Q-001_ar", code: "RNE-Q-001", lang: "ar",
		content: "الحد الأدنى لرأس مال الشركة ذات المسؤولية المحدودة في تونس هو ألف دينار تونسي ويجب إيداعه في حساب بنكي مجمد باسم الشركة.",
	},
	{
		id: "RNE-Q-002_fr", code: "RNE-Q-002", lang: "fr",
		content: "Les documents requis pour l'immatriculation d'une personne morale sont les statuts signés, une pièce d'identité du gérant, le justificatif du siège social et le formulaire de déclaration.",
	},
	{
		id: "RNE-Q-002_ar", code: "RNE-Q-002", lang: "ar",
		content: "الوثائق المطلوبة لتسجيل شركة هي العقد التأسيسي الممضى وبطاقة تعريف الوكيل وما يثبت المقر الاجتماعي واستمارة التصريح.",
	},
	{
		id: "RNE-Q-003_fr", code: "RNE-Q-003", lang: "fr",
		content: "Une SUARL est une société unipersonnelle à responsabilité limitée constituée par un associé unique. Elle suit le même régime que la SARL pour l'immatriculation au registre.",
	},
	{
		id: "RNE-Q-004_fr", code: "RNE-Q-004", lang: "fr",
		content: "L'immatriculation d'une association au registre national des entreprises se fait avec le formulaire RNE F 003 accompagné du récépissé de constitution.",
	},
	{
		id: "RNE-Q-005_fr", code: "RNE-Q-005", lang: "fr",
		content: "La modification des statuts d'une société doit être déclarée au registre dans un délai d'un mois à compter de la décision de l'assemblée générale.",
	},
	{
		id: "RNE-Q-005_ar", code: "RNE-Q-005", lang: "ar",
		content: "يجب التصريح بتغيير العقد التأسيسي للشركة لدى السجل الوطني للمؤسسات في أجل شهر من تاريخ قرار الجلسة العامة.",
	},
	{
		id: "RNE-Q-006_fr", code: "RNE-Q-006", lang: "fr",
		content: "La redevance demandée pour un extrait du registre national des entreprises est de 15 dinars, payable en ligne ou au guichet.",
	},
	{
		id: "RNE-Q-007_fr", code: "RNE-Q-007", lang: "fr",
		content: "Le délai de traitement d'une demande d'immatriculation est de 24 heures ouvrables lorsque le dossier est complet.",
	},
}

var corpusTestCases = []QueryTestCase{
	{
		Query:          "capital minimum sarl",
		Language:       "fr",
		ExpectedDocIDs: []string{"RNE-Q-001_fr"},
		Description:    "french capital question hits the capital document",
	},
	{
		Query:          "documents requis immatriculation",
		Language:       "fr",
		ExpectedDocIDs: []string{"RNE-Q-002_fr"},
		Description:    "french documents question hits the documents list",
	},
	{
		Query:          "suarl associé unique",
		Language:       "fr",
		ExpectedDocIDs: []string{"RNE-Q-003_fr"},
		Description:    "suarl question hits the single-member company document",
	},
	{
		Query:          "immatriculation association",
		Language:       "fr",
		ExpectedDocIDs: []string{"RNE-Q-004_fr", "RNE-Q-002_fr"},
		Description:    "association question hits the association form document",
	},
	{
		Query:          "redevance extrait registre",
		Language:       "fr",
		ExpectedDocIDs: []string{"RNE-Q-006_fr"},
		Description:    "fee question hits the fee document",
	},
	{
		Query:          "الوثائق المطلوبة لتسجيل شركة",
		Language:       "",
		ExpectedDocIDs: []string{"RNE-Q-002_ar"},
		Description:    "arabic documents question auto-detects and hits the arabic document",
	},
	{
		Query:          "رأس مال الشركة",
		Language:       "ar",
		ExpectedDocIDs: []string{"RNE-Q-001_ar"},
		Description:    "arabic capital question hits the arabic capital document",
	},
}

// BuildCorpus assembles the corpus with aligned texts and documents.
func BuildCorpus() *Corpus {
	texts := make([]string, 0, len(corpusEntries))
	docs := make([]models.Document, 0, len(corpusEntries))
	for _, e := range corpusEntries {
		texts = append(texts, e.content)
		docs = append(docs, models.Document{
			ID:         e.id,
			Code:       e.code,
			Language:   e.lang,
			Content:    e.content,
			SourceFile: "rne_laws.json",
			DataType:   "rne_law",
		})
	}
	return &Corpus{
		Texts:        texts,
		Documents:    docs,
		TestCases:    corpusTestCases,
		TotalDocs:    len(docs),
		TotalQueries: len(corpusTestCases),
	}
}
