// Package forms holds the catalog of official RNE declaration forms and
// matches them to user requests.
package forms

import "strings"

// Form is one official RNE form with its download URL.
type Form struct {
	Code     string `json:"code"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	URL      string `json:"url"`
}

// catalog lists the published RNE forms. Codes and URLs come from the
// official registry site.
var catalog = []Form{
	{
		Code:     "RNE-F-001",
		Title:    "**RNE F 001 Déclaration Immatriculation Personne Physique**",
		Subtitle: "Formulaire d'immatriculation d'une personne physique",
		URL:      "https://home.registre-entreprises.tn/wp-content/uploads/2022/10/RNE-F-001_declation_immatriculation_personne_physique.pdf",
	},
	{
		Code:     "RNE-F-002",
		Title:    "**RNE F 002 Déclaration Immatriculation Personne Morale**",
		Subtitle: "Formulaire d'immatriculation d'une personne morale",
		URL:      "https://home.registre-entreprises.tn/wp-content/uploads/2022/10/RNE-F-002_declation_immatriculation_personne_motale.pdf",
	},
	{
		Code:     "RNE-F-003",
		Title:    "**RNE F 003 Déclaration Immatriculation Association**",
		Subtitle: "Formulaire d'immatriculation d'une association",
		URL:      "https://home.registre-entreprises.tn/wp-content/uploads/2022/10/RNE-F-003_declation_immatriculation_association.pdf",
	},
	{
		Code:     "RNE-F-004",
		Title:    "**RNE F 004 Déclaration Modification Personne Physique**",
		Subtitle: "Formulaire de modification d'une personne physique",
		URL:      "https://home.registre-entreprises.tn/wp-content/uploads/2022/10/RNE-F-004_declaration_modification_personne_physique.pdf",
	},
	{
		Code:     "RNE-F-005",
		Title:    "**RNE F 005 Déclaration Modification Société/Établissement Public**",
		Subtitle: "Formulaire de modification d'une société ou établissement public",
		URL:      "https://home.registre-entreprises.tn/wp-content/uploads/2022/10/RNE-F-005_declaration_modification_personne_morale.pdf",
	},
	{
		Code:     "RNE-F-006",
		Title:    "**RNE F 006 Déclaration Modification Association**",
		Subtitle: "Formulaire de modification d'une association",
		URL:      "https://home.registre-entreprises.tn/wp-content/uploads/2023/12/RNE-F-006-declaration_modification_association.pdf",
	},
	{
		Code:     "RNE-F-007",
		Title:    "**RNE F 007 Demande Traduction Extrait Registre**",
		Subtitle: "Formulaire de demande de traduction d'un extrait du registre",
		URL:      "https://home.registre-entreprises.tn/wp-content/uploads/2023/06/RNE-F-006-DEMANDE-DE-TRADUCTION-DUN-EXTRAIT-DU-REGISTRE-1.pdf",
	},
}

// All returns every published form.
func All() []Form {
	out := make([]Form, len(catalog))
	copy(out, catalog)
	return out
}

// ByCode looks a form up by code, case-insensitively.
func ByCode(code string) (Form, bool) {
	for _, f := range catalog {
		if strings.EqualFold(f.Code, code) {
			return f, true
		}
	}
	return Form{}, false
}
