package ai

import "slices"

var analysisTypes = []string{"sentiment", "keywords", "summary", "seo", "readability"}

var analysisFormats = map[string]string{
	"sentiment": `Provide sentiment analysis in JSON format with these fields:
{
  "sentiment": "positive|negative|neutral",
  "confidence": 0.0-1.0,
  "explanation": "brief explanation"
}`,
	"keywords": `Extract top 10 keywords in JSON format with these fields:
{
  "keywords": ["keyword1", "keyword2", ...],
  "primary_topic": "main topic of the content"
}`,
	"summary": `Provide a concise summary in JSON format with these fields:
{
  "summary": "concise summary of the content",
  "key_points": ["point1", "point2", ...]
}`,
	"seo": `Provide SEO analysis in JSON format with these fields:
{
  "title_suggestions": ["title1", "title2"],
  "meta_description": "suggested meta description",
  "keywords": ["keyword1", "keyword2", ...],
  "readability_score": 0-100,
  "seo_recommendations": ["recommendation1", "recommendation2"]
}`,
	"readability": `Provide readability analysis in JSON format with these fields:
{
  "readability_score": 0-100,
  "grade_level": "estimated grade level",
  "word_count": number,
  "sentence_count": number,
  "paragraph_count": number,
  "complexity": "low|medium|high",
  "improvement_suggestions": ["suggestion1", "suggestion2"]
}`,
}

// ValidAnalysisType reports whether t is one of the supported analyses.
func ValidAnalysisType(t string) bool {
	return slices.Contains(analysisTypes, t)
}

// AnalysisPrompt builds the prompt asking for a JSON answer of the given type.
func AnalysisPrompt(content, analysisType string) string {
	base := "Analyze the following content:\n\n" + content + "\n\n"
	if format, ok := analysisFormats[analysisType]; ok {
		return base + format
	}
	return base + "Analyze this content and provide insights."
}
