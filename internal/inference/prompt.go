package inference

import (
	"fmt"
	"strings"
)

// BuildAnalyzeWordsPrompt returns the instruction sent with every analysis request.
func BuildAnalyzeWordsPrompt(params AnalyzeWordsRequest) string {
	return fmt.Sprintf(`You are an expert English teacher for Chinese speakers, specializing in phonics and memory techniques.
Analyze the following list of English words that start with "%s": %s.
Your response MUST be a single valid JSON object that strictly adheres to the provided schema. Do not include any text outside of the JSON object.

Here are your tasks for the analysis:

1. Memory Story: Create an engaging and short story in both English and Chinese that uses several key words from the list. This story should be memorable and help connect the words.
2. Group by Meaning: Group the words into semantically related clusters. Provide a concise English and Chinese name for each group.
3. Group by Vowel Sound: Group the words based on the pronunciation of the first main vowel sound after the initial consonant(s). For each group, provide a simple sound description (e.g., "short 'a' sound like in 'cat'") and its IPA symbol.
4. Detailed Word Analysis: For EACH word in the original list, provide the following details:
   - 'word': The word itself, spelled exactly as given.
   - 'englishDefinition': A clear and simple English definition.
   - 'chineseTranslation': The primary Chinese translation.
   - 'usageExamples': Provide 2 usage examples, each with an English sentence and its Chinese translation.
   - 'derivatives': List 1-2 words formed by adding prefixes or suffixes (e.g., 'basic' -> 'basically'). Provide the Chinese translation for each derivative. If none, provide an empty array.
   - 'vowelSwaps': List 1-2 new words formed by swapping only the vowels (e.g., 'bad' -> 'bed', 'bid'). Provide the Chinese translation for each new word. If none, provide an empty array.
   - 'grammar': Specify the primary part of speech. For verbs, list forms like past tense, past participle, present participle. For nouns, list the plural form. For adjectives, list comparative and superlative forms. Store these in the 'forms' array as objects, each with a 'formName' (e.g., 'Past Tense') and 'value' (e.g., 'backed').
`, params.Prefix, strings.Join(params.Words, ", "))
}
