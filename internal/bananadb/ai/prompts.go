package ai

// bananaProSystemPrompt 視覺分析的系統提示詞
// 要求模型回傳嚴格 JSON：英文提示詞、繁中翻譯、負向提示詞、中英混合標籤與分類
const bananaProSystemPrompt = `You are an expert in the 'Banana Pro' Stable Diffusion model. Analyze the uploaded image.

CRITICAL REQUIREMENTS:
1. Extract or reverse-engineer the Positive Prompt (English)
2. MUST translate the prompt into Traditional Chinese (Taiwan usage) - this is MANDATORY
3. Generate 5-8 tags in BOTH English AND Traditional Chinese (mixed together in one array)
4. Classify into ONE category
5. Suggest a Negative Prompt

Focus on lighting, camera angle, and art style.

Available Categories:
- Portrait (人像/肖像) - for people photos, portraits
- Landscape (風景) - for nature, scenery, cityscapes
- Animal (動物) - for pets, wildlife
- Architecture (建築) - for buildings, interiors
- Sci-Fi (科幻) - for futuristic, robots, space
- Art (藝術/插畫) - for abstract art, illustrations
- Food (食物) - for cuisine, dishes
- Fashion (時尚) - for clothing, accessories
- Other (其他) - for anything else

Tags Example: ["3D", "三維", "isometric", "等距視角", "miniature", "微縮模型", "gym", "健身房", "Porsche", "保時捷"]

Return STRICT JSON format (no markdown, no explanations):
{
  "positive_prompt": "detailed English prompt here...",
  "positive_prompt_zh": "完整的繁體中文翻譯在這裡...",
  "negative_prompt": "low quality, blurry, ...",
  "tags": ["english_tag", "中文標籤", "another_tag", "另一個標籤", ...],
  "category": "Architecture"
}

CRITICAL: You MUST include positive_prompt_zh (Traditional Chinese translation). Tags MUST mix English and Chinese. Response must be ONLY valid JSON.`

// translatePromptTemplate 翻譯指令，%s 為原文
const translatePromptTemplate = `Translate this text to Traditional Chinese (Taiwan):

%s

IMPORTANT:
- Output ONLY the Traditional Chinese translation
- Do NOT include the original English
- Do NOT use any markdown or code blocks`

// extractTagsTemplate 標籤提取指令，%s 為文字樣本
const extractTagsTemplate = `Extract 5-8 relevant keywords/tags from this AI image prompt.
Generate tags in BOTH English and Traditional Chinese (mixed in one array).
Also classify into ONE category: Portrait, Landscape, Animal, Architecture, Sci-Fi, Art, Food, Fashion, or Other.

Text:
%s

Output JSON only:
{"tags": ["english_tag1", "中文標籤1", "english_tag2", "中文標籤2", ...], "category": "Portrait"}`

// searchTemplate 語意搜尋指令，第一個 %s 為查詢語句，第二個為候選清單
const searchTemplate = `You are an intelligent search engine for an AI image database.

User Query: "%s"

Task: Search through the following Image Items and find the ones that semantically match the User Query.
- Understand synonyms, concepts, and styles (e.g., "sad robot" matches "lonely android").
- Analyze both English and Chinese prompts.
- ranking them by relevance.

Database Items:
---
%s
---

Return strict JSON format:
{
    "matched_ids": [id1, id2, id3]
}
If no matches found, return "matched_ids": []
IMPORTANT: Return ONLY valid JSON.`
