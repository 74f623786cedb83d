package llm

import "strings"

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// cannedAnswer returns a static Tunisia business-law answer for the question.
// It covers the common topics so the service stays useful when the chat API
// is unreachable or unconfigured.
func cannedAnswer(question string) string {
	q := strings.ToLower(question)
	french := containsAny(q, "comment", "quel", "création", "société", "frais", "délai") ||
		!containsAny(q, "the", "what", "how", "company", "which")

	switch {
	case containsAny(q, "capital", "minimum", "رأس المال"):
		switch {
		case strings.Contains(q, "sarl"):
			if french {
				return "Le capital minimum pour une SARL en Tunisie est de 1 000 TND. Il doit être déposé en banque avant l'immatriculation au RNE."
			}
			return "The minimum capital for a SARL in Tunisia is 1,000 TND. It must be deposited in a bank before RNE registration."
		case strings.Contains(q, "sa "), strings.HasSuffix(q, "sa"):
			if french {
				return "Le capital minimum pour une SA en Tunisie est de 5 000 TND. Au moins 25% doit être libéré lors de la constitution."
			}
			return "The minimum capital for a SA in Tunisia is 5,000 TND. At least 25% must be released upon incorporation."
		default:
			if french {
				return "Le capital minimum varie selon le type de société : SARL 1000 TND, SA 5000 TND, EURL 1000 TND, SUARL 1000 TND."
			}
			return "Minimum capital varies by company type: SARL 1000 TND, SA 5000 TND, EURL 1000 TND, SUARL 1000 TND."
		}

	case containsAny(q, "créer", "création", "create", "register", "immatriculer", "تأسيس"):
		if strings.Contains(q, "sarl") {
			if french {
				return "Pour créer une SARL : 1) Rédiger statuts 2) Déposer capital (1000 TND) 3) Obtenir certificat négatif INNORPI 4) S'immatriculer au RNE."
			}
			return "To create a SARL: 1) Draft articles 2) Deposit capital (1000 TND) 3) Get INNORPI negative certificate 4) Register with RNE."
		}
		if french {
			return "Création d'entreprise en Tunisie : choix forme juridique, statuts, dépôt capital, certificat négatif, immatriculation RNE, publication JORT."
		}
		return "Company creation in Tunisia: choose legal form, articles, capital deposit, negative certificate, RNE registration, JORT publication."

	case containsAny(q, "documents", "document", "requis", "required", "nécessaires", "وثائق"):
		if french {
			return "Documents RNE : statuts notariés, certificat dépôt capital, certificat négatif INNORPI, CIN associés, justificatif siège social."
		}
		return "RNE documents: notarized articles, capital deposit certificate, INNORPI negative certificate, partners' IDs, registered office proof."

	case containsAny(q, "formulaire", "form"):
		switch {
		case strings.Contains(q, "association"):
			if french {
				return "Formulaire RNE-F-003 pour créer une association. Disponible sur le site officiel du RNE avec statuts et liste membres."
			}
			return "Form RNE-F-003 to create an association. Available on official RNE website with bylaws and member list."
		case containsAny(q, "société", "company", "sarl", "sa"):
			if french {
				return "Formulaire RNE-F-002 pour immatriculation société. Documents : statuts, capital, certificat négatif, CIN, siège social."
			}
			return "Form RNE-F-002 for company registration. Documents: articles, capital, negative certificate, IDs, registered office."
		default:
			if french {
				return "Formulaires RNE disponibles selon le type : F-001 (personne physique), F-002 (société), F-003 (association)."
			}
			return "RNE forms available by type: F-001 (individual), F-002 (company), F-003 (association)."
		}

	default:
		if french {
			return "Pour des informations spécifiques sur les entreprises en Tunisie, consultez le site officiel du RNE ou contactez un expert-comptable."
		}
		return "For specific information about businesses in Tunisia, consult the official RNE website or contact a local accountant."
	}
}
