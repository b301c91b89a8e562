package scanning

// transcriptionPrompts are the shared prompts used by all LLM providers.
// Each one is a separate attempt; the longest transcript wins.
var transcriptionPrompts = []string{
	`You are reading a photographed retail receipt. Transcribe every line of printed text exactly as it appears, from top to bottom, one receipt line per output line.

Rules:
- Keep each item's quantity, name and price on the same line, in the printed order
- Copy numbers, currency symbols and punctuation exactly; do not compute or correct anything
- Include the shop name, address, totals and footer lines
- Do not translate, summarize or add commentary
- Do not use markdown code blocks`,

	`Read this receipt row by row like an OCR engine. Output plain text only: one line per printed row, left column first, separated by single spaces. Preserve the original spelling, digits, decimal separators and currency symbols. Output nothing else.`,
}
