package dedup

import (
	"fmt"
	"math"

	"github.com/tlemarchand/locadoc/internal/core/domain"
)

const uploadDateLayout = "02/01/2006"

func neutralPresentation() domain.Presentation {
	return domain.Presentation{
		Title:          "Aucun doublon détecté",
		Subtitle:       "Ce document ne ressemble à aucun document existant.",
		Badges:         []string{},
		Recommendation: "Vous pouvez poursuivre l'envoi.",
	}
}

func buildPresentation(
	dupType domain.DuplicateType,
	action domain.SuggestedAction,
	s domain.ComparisonSignals,
	matched *domain.MatchedDocument,
) domain.Presentation {
	if dupType == domain.DuplicateNone || matched == nil {
		return neutralPresentation()
	}

	var title, qualifier string
	switch dupType {
	case domain.DuplicateExact:
		title = "Doublon exact détecté"
		qualifier = "Identique"
	case domain.DuplicateNear:
		title = "Doublon probable détecté"
		qualifier = "Très similaire"
	default:
		title = "Doublon potentiel détecté"
		qualifier = "Possiblement similaire"
	}

	subtitle := fmt.Sprintf("%s à « %s » (uploadé le %s)",
		qualifier, matched.Filename, matched.UploadedAt.Format(uploadDateLayout))

	return domain.Presentation{
		Title:          title,
		Subtitle:       subtitle,
		Badges:         buildBadges(s),
		Recommendation: recommendationSentence(action),
	}
}

func buildBadges(s domain.ComparisonSignals) []string {
	badges := make([]string, 0, 6)
	if s.ChecksumMatch {
		badges = append(badges, "Empreinte de contenu identique")
	}
	badges = append(badges, fmt.Sprintf("Similarité du texte : %d %%", int(math.Round(s.Similarity*100))))
	badges = append(badges, fmt.Sprintf("Pages : %d vs %d", s.NewPages, s.ExistingPages))
	if s.PeriodMatch {
		badges = append(badges, "Même période")
	}
	if s.ContextMatch {
		badges = append(badges, "Même bien, bail ou locataire")
	}
	if s.FilenameMatch {
		badges = append(badges, "Nom de fichier identique")
	}
	if s.SinglePageType && s.NewPages != s.ExistingPages {
		badges = append(badges, "Nombre de pages inhabituel pour ce type de document")
	}
	return badges
}

func recommendationSentence(action domain.SuggestedAction) string {
	switch action {
	case domain.ActionCancel:
		return "Ce document existe déjà : nous vous recommandons d'annuler cet envoi."
	case domain.ActionReplace:
		return "Le nouveau fichier semble de meilleure qualité : remplacez le document existant."
	case domain.ActionAskUser:
		return "Vérifiez s'il s'agit du même document avant de continuer."
	case domain.ActionKeepBoth:
		return "Vous pouvez conserver les deux documents."
	default:
		return "Vous pouvez poursuivre l'envoi."
	}
}
