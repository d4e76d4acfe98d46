package genai

import (
	"fmt"
	"strings"

	"github.com/KARANMAJILA/Hairstyle/internal/catalog"
)

const genderPrompt = `Analyze this photo and identify if the person appears to be male or female. Just respond with one word: "male" or "female".`

func buildRecommendPrompt(gender, hairLength, selectedStyle string, candidates []string) string {
	sb := &strings.Builder{}
	sb.WriteString("You are a professional hairstylist AI analyzing face features for hairstyle recommendations.\n\n")
	sb.WriteString("Analyze this person's face (face shape, bone structure, facial features, hair type, skin tone) and recommend which hairstyles would suit them BEST and which would NOT suit them.\n\n")
	fmt.Fprintf(sb, "Available hairstyles for %s with %s hair: %s\n\n", gender, hairLength, strings.Join(candidates, ", "))
	fmt.Fprintf(sb, "For the hairstyle %q that they selected:\n", catalog.Canonical(selectedStyle))
	sb.WriteString("1. Does it suit them? (Yes/No)\n")
	sb.WriteString("2. Why or why not? (1-2 sentences max, considering face shape and features)\n")
	sb.WriteString("3. Which 2-3 hairstyles from the list would suit them BEST? (just the names)\n")
	sb.WriteString("4. Any hairstyles that would NOT suit them? (just names, optional)\n\n")
	sb.WriteString("Keep response concise and professional. Consider:\n")
	sb.WriteString("- Face shape (round, oval, square, heart, etc.)\n")
	sb.WriteString("- Facial features and proportions\n")
	sb.WriteString("- Hair texture and type\n")
	sb.WriteString("- Overall aesthetic balance\n\n")
	sb.WriteString("Format your response as:\n")
	sb.WriteString("Selected Style Verdict: [Yes/No]\n")
	sb.WriteString("Reason: [reason]\n")
	sb.WriteString("Best Suited: [style1, style2, style3]\n")
	sb.WriteString("Not Recommended: [style1, style2] (if any)")
	return sb.String()
}

func buildTransformPrompt(style, hairLength string) string {
	sb := &strings.Builder{}
	sb.WriteString("You are a professional hairstylist AI. Apply a new hairstyle transformation.\n\n")
	sb.WriteString("CRITICAL INSTRUCTIONS:\n")
	sb.WriteString("1. ONLY modify the person's HAIR - Nothing else\n")
	sb.WriteString("2. Keep EVERYTHING else EXACTLY the same:\n")
	sb.WriteString("   - Face (same features, skin tone, expression)\n")
	sb.WriteString("   - Eyes, nose, mouth, facial structure\n")
	sb.WriteString("   - Clothing and outfit (DO NOT change)\n")
	sb.WriteString("   - Background (DO NOT change)\n")
	sb.WriteString("   - Body position and pose\n")
	sb.WriteString("   - Shoulders and neck\n")
	fmt.Fprintf(sb, "3. Apply ONLY the %s hairstyle to the head\n", style)
	sb.WriteString("4. Make the hair transformation natural and realistic\n")
	fmt.Fprintf(sb, "5. Ensure the hairstyle matches the %s length reference\n", hairLength)
	sb.WriteString("6. Professional quality salon photo\n")
	sb.WriteString("7. Maintain perfect consistency with everything else in the image\n\n")
	fmt.Fprintf(sb, "The hairstyle to apply: %s\n", style)
	fmt.Fprintf(sb, "Hair length reference: %s\n\n", hairLength)
	sb.WriteString("Generate a realistic hairstyle transformation where ONLY the hair changes.\n")
	sb.WriteString("Keep person's identity, features, clothing, and background completely unchanged.")
	return sb.String()
}
