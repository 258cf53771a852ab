// Package knowledge содержит статическую клиническую базу знаний: по каждой
// патологии — описание находки, визуальная картина, клинический контекст и
// рекомендация. База загружается один раз и не изменяется во время работы.
package knowledge

import (
	"fmt"

	"diagno-bot/internal/domain/entity"
)

// Entry статическая запись базы знаний по одной патологии
type Entry struct {
	Finding         string          // Рентгенологическая находка
	VisualPattern   string          // Типичная визуальная картина
	ClinicalContext string          // Клинический контекст
	SeverityHint    entity.Severity // Уровень срочности по умолчанию
}

var entries = map[string]Entry{
	"Atelectasis": {
		Finding:         "Partial or complete collapse of one or more lung segments",
		VisualPattern:   "Increased opacity with volume loss, shift of fissures toward the affected area",
		ClinicalContext: "Often caused by mucus plugging, airway obstruction, or post-surgical changes. Requires airway clearance or bronchoscopy.",
		SeverityHint:    entity.SeverityModerate,
	},
	"Consolidation": {
		Finding:         "Airspace filled with fluid, pus, blood, or cells replacing normal air",
		VisualPattern:   "Homogeneous opacification maintaining lung volume, air bronchograms may be visible",
		ClinicalContext: "Classic finding in bacterial pneumonia. May indicate aspiration, lung contusion, or infarct.",
		SeverityHint:    entity.SeverityHigh,
	},
	"Infiltration": {
		Finding:         "Inflammatory cells or fluid within lung tissue",
		VisualPattern:   "Diffuse, hazy increased opacity — less dense than consolidation, with indistinct borders",
		ClinicalContext: "Associated with early pneumonia, bronchitis, or viral infections. Warrants monitoring.",
		SeverityHint:    entity.SeverityModerate,
	},
	"Pneumothorax": {
		Finding:         "Air in the pleural space causing lung collapse",
		VisualPattern:   "Visible pleural line with absence of lung markings beyond it, often at apex",
		ClinicalContext: "Medical emergency if large or tension pneumothorax. Requires immediate decompression.",
		SeverityHint:    entity.SeverityCritical,
	},
	"Edema": {
		Finding:         "Fluid accumulation in lung tissue and air spaces",
		VisualPattern:   "Bilateral perihilar haziness ('bat wing' pattern), Kerley B lines, pleural effusion",
		ClinicalContext: "Commonly seen in congestive heart failure, acute respiratory distress syndrome (ARDS).",
		SeverityHint:    entity.SeverityHigh,
	},
	"Emphysema": {
		Finding:         "Permanent airspace enlargement with destruction of alveolar walls",
		VisualPattern:   "Hyperinflation, flat diaphragms, increased retrosternal airspace, hyperlucent lung fields",
		ClinicalContext: "Chronic condition, strongly associated with smoking. Managed with bronchodilators.",
		SeverityHint:    entity.SeverityModerate,
	},
	"Fibrosis": {
		Finding:         "Scarring and thickening of lung tissue reducing elasticity",
		VisualPattern:   "Reticular (net-like) opacities, honeycombing at bases, traction bronchiectasis",
		ClinicalContext: "Seen in interstitial lung disease (ILD), post-infection scarring, or autoimmune conditions.",
		SeverityHint:    entity.SeverityModerate,
	},
	"Effusion": {
		Finding:         "Abnormal fluid collection in the pleural space",
		VisualPattern:   "Blunting of costophrenic angle, meniscus sign, opacification of lower lung zones",
		ClinicalContext: "Can be transudative (heart failure, cirrhosis) or exudative (infection, malignancy).",
		SeverityHint:    entity.SeverityModerate,
	},
	"Pneumonia": {
		Finding:         "Lung infection causing inflammatory fluid in air sacs",
		VisualPattern:   "Lobar or segmental consolidation, often unilateral in lower lobes with air bronchograms",
		ClinicalContext: "Bacterial pneumonia typically shows lobar pattern; viral shows bilateral interstitial pattern.",
		SeverityHint:    entity.SeverityHigh,
	},
	"Pleural_Thickening": {
		Finding:         "Fibrous thickening of the pleural membrane",
		VisualPattern:   "Linear soft tissue density along chest wall, may be bilateral",
		ClinicalContext: "Associated with prior infection, asbestos exposure, or prior pleural effusion.",
		SeverityHint:    entity.SeverityLow,
	},
	"Cardiomegaly": {
		Finding:         "Enlarged heart silhouette on chest X-ray",
		VisualPattern:   "Cardiothoracic ratio > 0.5 on PA film, prominent cardiac borders",
		ClinicalContext: "Indicates cardiomegaly from left/right ventricular hypertrophy, dilated cardiomyopathy, or pericardial effusion.",
		SeverityHint:    entity.SeverityModerate,
	},
	"Nodule": {
		Finding:         "Small, well-defined round opacity ≤ 3cm",
		VisualPattern:   "Discrete rounded density, may have smooth or irregular margins",
		ClinicalContext: "Could be benign (granuloma, hamartoma) or malignant (primary lung cancer, metastasis). Requires CT follow-up.",
		SeverityHint:    entity.SeverityModerate,
	},
	"Mass": {
		Finding:         "Large, focal opacity > 3cm requiring urgent investigation",
		VisualPattern:   "Large heterogeneous density, may have irregular or spiculated margins",
		ClinicalContext: "High suspicion for malignancy. Requires CT chest and PET scan urgently.",
		SeverityHint:    entity.SeverityCritical,
	},
	"Hernia": {
		Finding:         "Abdominal organ herniation into chest cavity",
		VisualPattern:   "Bowel gas loops or soft tissue above diaphragm, obscured left hemidiaphragm",
		ClinicalContext: "Hiatal or diaphragmatic hernia. Clinical evaluation and CT recommended.",
		SeverityHint:    entity.SeverityLow,
	},
	"Lung Lesion": {
		Finding:         "Focal abnormal lung tissue (unclear etiology)",
		VisualPattern:   "Discrete opacity or density change in focal lung region",
		ClinicalContext: "Warrants further characterization with CT. Differential includes infection, benign or malignant tumor.",
		SeverityHint:    entity.SeverityModerate,
	},
	"Fracture": {
		Finding:         "Break in rib or bony thorax visible on X-ray",
		VisualPattern:   "Linear lucency through rib cortex, may show overlapping fragments or step-off",
		ClinicalContext: "Associated with trauma. Risk of pneumothorax or hemothorax with multiple rib fractures.",
		SeverityHint:    entity.SeverityModerate,
	},
	"Lung Opacity": {
		Finding:         "Generalized or focal increased density in lung parenchyma",
		VisualPattern:   "Hazy or solid increased whiteness obscuring vascular markings",
		ClinicalContext: "Non-specific finding; may represent consolidation, effusion, atelectasis, or edema.",
		SeverityHint:    entity.SeverityModerate,
	},
	"Enlarged Cardiomediastinum": {
		Finding:         "Widened mediastinal shadow on chest X-ray",
		VisualPattern:   "Mediastinal width > 8cm on PA film, bilateral enlargement of mediastinal contours",
		ClinicalContext: "Consider aortic dissection (emergency), lymphoma, pericardial effusion, or vascular ectasia.",
		SeverityHint:    entity.SeverityHigh,
	},
}

// urgencyMap рекомендации по срочности для известных патологий
var urgencyMap = map[string]string{
	"Pneumothorax":               "Urgent: Immediate chest decompression may be required. Consult emergency medicine.",
	"Mass":                       "Urgent: CT chest + PET scan required to evaluate for malignancy. Urgent oncology referral.",
	"Enlarged Cardiomediastinum": "Urgent: Rule out aortic dissection with CT angiography immediately.",
	"Edema":                      "High Priority: Cardiology evaluation for cardiac vs non-cardiac pulmonary edema.",
	"Pneumonia":                  "High Priority: Antibiotic therapy indicated. Blood cultures, sputum cultures recommended.",
	"Consolidation":              "High Priority: Treat underlying cause — pneumonia or aspiration. Follow-up X-ray in 6 weeks.",
	"Nodule":                     "Follow-up: CT chest (thin-section) to characterize nodule. Nodule tracking per Fleischner guidelines.",
	"Effusion":                   "Follow-up: Consider diagnostic thoracentesis if large. Echocardiogram to evaluate cardiac cause.",
	"Cardiomegaly":               "Follow-up: Echocardiogram to assess cardiac function and chamber sizes.",
	"Atelectasis":                "Follow-up: Chest physiotherapy, incentive spirometry. Bronchoscopy if persistent.",
}

// Lookup возвращает запись по метке патологии. Для неизвестной метки
// возвращается обобщённая запись с упоминанием метки и средней срочностью.
func Lookup(label string) Entry {
	if e, ok := entries[label]; ok {
		return e
	}
	return Entry{
		Finding:         fmt.Sprintf("Abnormal pattern detected consistent with %s", label),
		VisualPattern:   "Focal increased density region detected by model",
		ClinicalContext: "Clinical correlation recommended.",
		SeverityHint:    entity.SeverityModerate,
	}
}

// SeverityFor возвращает уровень срочности для метки (для неизвестной — moderate).
func SeverityFor(label string) entity.Severity {
	return Lookup(label).SeverityHint
}

// Recommendation подбирает рекомендацию по срочности. Для метки вне таблицы
// строится общая рекомендация с упоминанием метки и уверенности; при
// уверенности ниже 40% текст получает префикс о низкой достоверности.
func Recommendation(label string, confidencePct float64) string {
	rec, ok := urgencyMap[label]
	if !ok {
		rec = fmt.Sprintf(
			"Clinical Correlation: Findings consistent with %s at %.0f%% confidence. Radiologist review and clinical correlation recommended.",
			label, confidencePct,
		)
	}
	if confidencePct < 40 {
		rec = fmt.Sprintf("Low confidence finding (%.0f%%). %s", confidencePct, rec)
	}
	return rec
}

// NormalExplanation каноническое объяснение для нормального снимка.
func NormalExplanation() entity.Explanation {
	return entity.Explanation{
		RadiologicalFinding: "No significant acute cardiopulmonary abnormality detected",
		VisualPattern:       "Lung fields are clear bilaterally, cardiac silhouette within normal limits",
		VisualEvidence:      "Model activation is diffuse and low-intensity — no focal anomaly region identified",
		ClinicalContext:     "Normal chest X-ray. Standard follow-up as clinically indicated.",
		Recommendation:      "No acute pathology detected. Routine clinical follow-up recommended.",
		Severity:            entity.SeverityNormal,
		Region:              entity.RegionNoFocal,
		ConfidencePct:       100.0,
	}
}

// Labels возвращает все известные базе метки (порядок не гарантируется).
func Labels() []string {
	out := make([]string, 0, len(entries))
	for label := range entries {
		out = append(out, label)
	}
	return out
}
