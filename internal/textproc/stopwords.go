package textproc

// Stopword sets for the two supported languages. These are intentionally small,
// curated lists; retrieval quality on the fixed RNE corpus does not benefit from
// a full linguistic stopword inventory.

var frenchStopwords = makeSet(
	"le", "la", "les", "un", "une", "des", "et", "ou", "de", "du", "à", "au", "aux",
	"ce", "cette", "ces", "mon", "ma", "mes", "ton", "ta", "tes", "son", "sa", "ses",
	"que", "qui", "quoi", "dont", "où", "quand", "comment", "pourquoi",
	"je", "tu", "il", "elle", "nous", "vous", "ils", "elles", "on",
	"pour", "par", "en", "dans", "sur", "sous", "avec", "sans", "chez", "entre",
	"est", "sont", "était", "étaient", "être", "avoir", "a", "ai", "as", "avons", "avez", "ont",
)

var arabicStopwords = makeSet(
	"من", "إلى", "عن", "على", "في", "هذا", "هذه", "هؤلاء", "ذلك", "تلك", "أولئك",
	"الذي", "التي", "الذين", "اللواتي", "أنا", "أنت", "هو", "هي", "نحن", "أنتم", "هم", "هن",
	"كان", "كانت", "كانوا", "يكون", "تكون", "يكونوا", "كن", "أن", "لأن", "لكن", "إذا", "لو",
	"قد", "لقد", "قال", "قالت", "يقول", "تقول", "أو", "أم", "أي", "كل", "بعض", "جميع",
)

// meaningfulShortFrench are sub-two-rune tokens kept during tokenization.
var meaningfulShortFrench = makeSet(
	"à", "au", "du", "de", "le", "la", "un", "et", "ou", "si", "en", "on",
)

var meaningfulShortArabic = makeSet(
	"في", "من", "إلى", "على", "عن", "هو", "هي", "لا", "ما",
)

// frenchHintWords are used by pattern-based language detection when no Arabic
// script is present.
var frenchHintWords = makeSet(
	"quel", "quelle", "quels", "quelles", "comment", "pourquoi", "quand", "où",
	"combien", "est", "sont", "être", "avoir", "faire",
	"société", "entreprise", "création", "capital", "délai", "document",
)

var arabicHintWords = makeSet(
	"ما", "ماذا", "كيف", "لماذا", "متى", "أين", "كم", "هل",
	"شركة", "مؤسسة", "تأسيس", "وثائق", "مدة",
)

func makeSet(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}
