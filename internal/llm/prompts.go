package llm

import (
	"fmt"
	"strings"

	"github.com/OuhabYouceff/RBOT/internal/models"
)

// languageName maps a language tag to the word used in prompts.
func languageName(lang string) string {
	switch lang {
	case models.LangArabic:
		return "arabic"
	default:
		return "french"
	}
}

const answerSystemPrompt = `You are an expert on Tunisia business law and RNE (Registre National des Entreprises).

EXPERTISE AREAS:
- Tunisia company registration procedures
- RNE (Registre National des Entreprises) specific processes
- Tunisia company types: SARL, SA, EURL, SUARL, Entreprise Individuelle
- Capital requirements in Tunisian Dinars (TND)
- Legal requirements and documentation for Tunisia
- INNORPI (Institut National de la Normalisation et de la Propriété Industrielle)
- Tunisia tax obligations and business licenses
- CNSS (Caisse Nationale de Sécurité Sociale) affiliations
- Journal Officiel de la République Tunisienne (JORT) publications

RESPONSE RULES:
- Keep responses SHORT (2-3 sentences maximum)
- Include specific TND amounts when relevant
- Reference Tunisia-specific institutions (RNE, INNORPI, CNSS, etc.)
- Be direct and factual
- Respond in the same language as the question
- No long explanations unless specifically requested`

func clarificationPrompt(query, language string) string {
	return fmt.Sprintf(`You are an expert assistant for RNE Tunisia. Analyze if this user query needs additional information.

EXAMPLES OF QUERIES THAT NEED FOLLOW-UP:

Example 1:
User: "Quel est le capital minimum ?"
Response: {
    "needs_info": true,
    "main_response": "Le capital minimum dépend du type de société que vous souhaitez créer.",
    "follow_up_question": "Quel type de société souhaitez-vous créer ?",
    "options": ["SARL", "SA", "EURL", "SUARL", "Autre"]
}

Example 2:
User: "Quels sont les frais ?"
Response: {
    "needs_info": true,
    "main_response": "Les frais varient selon le type de service RNE demandé.",
    "follow_up_question": "Quel service RNE vous intéresse ?",
    "options": ["Inscription", "Modification", "Extrait", "Traduction"]
}

EXAMPLES OF QUERIES THAT DON'T NEED FOLLOW-UP:

Example 1:
User: "Comment créer une SARL ?"
Response: {"needs_info": false}

Example 2:
User: "Documents nécessaires inscription RNE"
Response: {"needs_info": false}

Example 3:
User: "capital minimum SARL"
Response: {"needs_info": false}

Now analyze this query: %q

If additional info needed, respond ONLY with:
{
    "needs_info": true,
    "main_response": "Brief explanation in %s",
    "follow_up_question": "Specific question in %s",
    "options": ["option1", "option2", "option3"]
}

If NO additional info needed, respond ONLY with:
{
    "needs_info": false
}

Return ONLY JSON, no other text.`, query, language, language)
}

func segmentationPrompt(query string) string {
	return fmt.Sprintf(`Analyze this query and determine if it contains multiple distinct questions.

EXAMPLES:

Example 1:
User: "Quel est le capital minimum et les frais d'inscription ?"
Response: {
    "multiple_questions": true,
    "questions": ["Quel est le capital minimum pour créer une société?", "Quels sont les frais d'inscription au RNE?"]
}

Example 2:
User: "Comment créer une SARL ?"
Response: {
    "multiple_questions": false,
    "questions": ["Comment créer une SARL ?"]
}

User query: %q

Response format:
{
    "multiple_questions": true/false,
    "questions": ["question1", "question2", ...]
}

Return ONLY JSON.`, query)
}

func formatPrompt(query string, results []models.RAGResult, language string) string {
	var info strings.Builder
	for i, r := range results {
		if i > 0 {
			info.WriteString("\n\n")
		}
		fmt.Fprintf(&info, "Q: %s\nA: %s", r.Question, r.Answer)
	}
	return fmt.Sprintf(`You are an expert for RNE Tunisia. Give a SHORT, direct answer.

User query: %q
Information: %s

EXAMPLES OF GOOD SHORT ANSWERS:

Example 1:
Query: "capital minimum SARL"
Response: {
    "answer": "Le capital minimum pour une SARL en Tunisie est de 1 000 TND. Il doit être déposé en banque avant l'immatriculation.",
    "suggestions": ["Où déposer le capital ?", "Documents pour SARL"],
    "suggest_forms": true
}

Example 2:
Query: "Comment créer une SARL ?"
Response: {
    "answer": "Pour créer une SARL: 1) Rédiger statuts 2) Déposer capital (1000 TND) 3) S'immatriculer au RNE 4) Publier au JORT.",
    "suggestions": ["Documents nécessaires", "Frais d'inscription"],
    "suggest_forms": true
}

RULES:
1. Maximum 2-3 sentences
2. Include TND amounts when relevant
3. Be direct and factual
4. Suggest forms when about registration/modification

Respond ONLY with:
{
    "answer": "Short direct answer in %s",
    "suggestions": ["suggestion1", "suggestion2"] or [],
    "suggest_forms": true/false
}

Return ONLY JSON.`, query, info.String(), language)
}

func formsPrompt(query, context string, catalog []CatalogEntry) string {
	var desc strings.Builder
	for _, f := range catalog {
		fmt.Fprintf(&desc, "- %s: %s (%s)\n", f.Code, f.Title, f.Subtitle)
	}
	return fmt.Sprintf(`You are an expert on RNE Tunisia forms. Analyze the user query and context to determine which RNE forms are relevant.

AVAILABLE FORMS:
%s
EXAMPLES:

Example 1:
Query: "Comment immatriculer une SARL ?"
Response: ["RNE-F-002"]
Reason: SARL is a société (personne morale), needs F-002 for registration

Example 2:
Query: "Déclaration Immatriculation Personne Physique"
Response: ["RNE-F-001"]
Reason: Explicitly asks for individual person registration

Example 3:
Query: "Formulaire pour créer une association"
Response: ["RNE-F-003"]
Reason: Association registration needs F-003

Example 4:
Query: "Quel est le capital minimum ?"
Response: []
Reason: Just asking about capital, no form needed

User Query: %q
Context: %q

Return ONLY a JSON array with relevant form codes:
["RNE-F-XXX", "RNE-F-YYY"] or []

Rules:
- Return maximum 2 forms
- Be very specific to the user's actual need
- If just asking general questions (like capital amount), return []
- Only suggest forms when user actually needs to do registration/modification/translation`, desc.String(), query, context)
}
