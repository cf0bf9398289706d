// Package language normalizes language identifiers used across framescribe.
//
// Transcription payloads carry short ISO 639 codes ("en"), recognizer options
// carry BCP 47 tags ("en-US", "zh-Hans"), and users type full names
// ("english"). All conversions between those forms live here.
package language
