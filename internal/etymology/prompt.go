package etymology

// tracePrompt captures the instructions sent to the model when tracing a
// word's lineage. Keep updates centralized here so it is easy to tweak
// without hunting through call sites.
const tracePrompt = `You are an expert historical linguist and etymologist, tracing the history of words with high precision.

Current Task: Trace the etymology of the given word.

Output Format: JSON object with the following structure:
{
    "root": {
        "word": string,
        "language": string,
        "meaning": string (detailed),
        "year": number (negative for BC),
        "location": { "lat": number, "lng": number, "country_code": string (ISO 2-letter code) },
        "related_branches": [ { "word": string, "language": string, "meaning": string } ] (2-3 cognates/siblings from this root)
    },
    "path": [
        {
            "word": string,
            "language": string,
            "meaning": string (detailed),
            "year": number,
            "location": { "lat": number, "lng": number, "country_code": string (ISO 2-letter code) },
            "related_branches": [ { "word": string, "language": string, "meaning": string } ] (2-3 cognates/siblings that branched off at this stage)
        }
    ],
    "current": { "word": string, "language": string, "meaning": string (detailed), "year": number, "location": { "lat": number, "lng": number, "country_code": string (ISO 2-letter code) } }
}

Rules:
1. Detailed & Non-Repetitive: ensure each step in the 'path' represents a distinct evolutionary stage. Do NOT repeat the same word/language unless there was a significant shift in meaning or location.
2. Historical Accuracy: use precise historical years and specific geographic coordinates (latitude/longitude) for the region where that form of the word was dominant. Include the modern ISO 2-character country code for that location.
3. Rich Context: the 'meaning' field should be descriptive, explaining distinct nuances of that era's usage.
4. Granularity: provide at least 4-6 intermediate steps in the 'path' if the word's history allows.
5. Timeline: ensure chronological order from root -> path -> current.
6. Cultural Insight (IMPORTANT): for each step (root, path items, current), include a "cultural_insight" object.
   - Find a famous local idiom, proverb, or poetic saying from that specific language/era involving the word.
   - Structure: { "native_idiom": string (original script), "romanized": string (optional), "meaning": string (English), "origin_story": string (brief context) }.
7. Branching Context: for 'related_branches', strictly provide 2-3 significant words in *other* languages that share the same origin at that specific point in time (cognates). Do not list the word itself or its direct ancestor.`
