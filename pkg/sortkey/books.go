package sortkey

// novaVulgataOrder maps every accepted spelling of a book to its position in
// the Nova Vulgata canon (1 = Genesis, 75 = Apocalypse).
var novaVulgataOrder = map[string]int{
	// Old Testament
	"Gen": 1, "Genesis": 1,
	"Ex": 2, "Exodus": 2,
	"Lev": 3, "Leviticus": 3,
	"Num": 4, "Numeri": 4,
	"Deut": 5, "Deuteronomium": 5,
	"Jos": 6, "Josue": 6,
	"Judg": 7, "Judges": 7,
	"Ruth": 8,
	"Sam": 9, "1Sam": 9, "1 Sam": 9,
	"2Sam": 10, "2 Sam": 10,
	"Reg": 11, "1Reg": 11, "1 Reg": 11,
	"2Reg": 12, "2 Reg": 12,
	"3Reg": 13, "3 Reg": 13,
	"4Reg": 14, "4 Reg": 14,
	"Par": 15, "1Par": 15, "1 Par": 15,
	"2Par": 16, "2 Par": 16,
	"Esr": 17, "Ezra": 17,
	"Neh": 18, "Nehemia": 18,
	"Tob": 19, "Tobias": 19,
	"Jdt": 20, "Judith": 20, "Jud": 20,
	"Esth": 21, "Esther": 21,
	"Job": 22,
	"Ps": 23, "Psalms": 23,
	"Prov": 24, "Proverbia": 24,
	"Eccl": 25, "Ecclesiastes": 25, "Koh": 25,
	"Cant": 26, "Cantica": 26,
	"Sap": 27, "Sapientia": 27,
	"Sir": 28, "Sirach": 28,
	"Is": 29, "Isaia": 29,
	"Jer": 30, "Jeremia": 30,
	"Lam": 31, "Lamentationes": 31,
	"Bar": 32, "Baruch": 32,
	"Ez": 33, "Ezechiel": 33,
	"Dan": 34, "Daniel": 34,
	"Os": 35, "Osee": 35, "Hos": 35,
	"Joel": 36,
	"Am": 37, "Amos": 37,
	"Abd": 38, "Abdiam": 38, "Abdias": 38,
	"Jon": 39, "Jonas": 39,
	"Mich": 40, "Michea": 40,
	"Nah": 41, "Nahum": 41, "Naum": 41,
	"Hab": 42, "Habacuc": 42,
	"Soph": 43, "Sophonia": 43,
	"Agg": 44, "Aggeus": 44,
	"Zach": 45, "Zacharia": 45,
	"Mal": 46, "Malachia": 46,
	"Mac": 47, "1Mac": 47, "Macc": 47, "1Macc": 47, "1 Mac": 47, "1 Macc": 47,
	"2Mac": 48, "2Macc": 48, "2 Mac": 48, "2 Macc": 48,

	// New Testament
	"Mt": 49, "Matthew": 49,
	"Mc": 50, "Mark": 50,
	"Lc": 51, "Luke": 51, "Lk": 51,
	"Jn": 52, "John": 52, "Joh": 52,
	"Act": 53, "Acts": 53,
	"Rom": 54, "Romans": 54,
	"Cor": 55, "1Cor": 55, "1 Cor": 55,
	"2Cor": 56, "2 Cor": 56,
	"Gal": 57, "Galatians": 57,
	"Eph": 58, "Ephesians": 58,
	"Phil": 59, "Philippians": 59,
	"Col": 60, "Colossians": 60,
	"Thess": 61, "1Thess": 61, "Thes": 61, "1Thes": 61, "1 Thess": 61, "1 Thes": 61,
	"2Thess": 62, "2Thes": 62, "2 Thess": 62, "2 Thes": 62,
	"Tim": 63, "1Tim": 63, "1 Tim": 63,
	"2Tim": 64, "2 Tim": 64,
	"Tit": 65, "Titus": 65,
	"Phlm": 66, "Philemon": 66,
	"Heb": 67, "Hebrews": 67, "Hebr": 67,
	"Jas": 68, "James": 68,
	"Pet": 69, "1Pet": 69, "1 Pet": 69,
	"2Pet": 70, "2 Pet": 70,
	"Jn2": 71, "1Jn": 71, "1 Jn": 71,
	"2Jn": 72, "2 Jn": 72,
	"3Jn": 73, "3 Jn": 73,
	"Jude": 74,
	"Apoc": 75, "Apocalypse": 75, "Rev": 75,
}

// bookNames maps the abbreviations used in passage references to English
// book names for the search facets.
var bookNames = map[string]string{
	"Gen": "Genesis", "Ex": "Exodus", "Lev": "Leviticus", "Num": "Numbers", "Deut": "Deuteronomy",

	"Ios": "Joshua", "Ruth": "Ruth",
	"1 Reg": "1 Kings", "2 Reg": "2 Kings", "3 Reg": "3 Kings", "4 Reg": "4 Kings",
	"1 Par": "1 Chronicles", "2 Par": "2 Chronicles",
	"Esdr": "Ezra", "Ne": "Nehemiah", "Tob": "Tobit", "Iudith": "Judith", "Est": "Esther",
	"1 Macc": "1 Maccabees", "2 Macc": "2 Maccabees",

	"Iob": "Job", "Ps": "Psalms", "Prov": "Proverbs", "Koh": "Ecclesiastes",
	"Cant": "Song of Songs", "Sap": "Wisdom", "Sir": "Sirach",

	"Is": "Isaiah", "Jer": "Jeremiah", "Lam": "Lamentations", "Bar": "Baruch",
	"Ez": "Ezekiel", "Dan": "Daniel",

	"Os": "Hosea", "Ioel": "Joel", "Amos": "Amos", "Abd": "Obadiah", "Ion": "Jonah",
	"Mich": "Micah", "Nah": "Nahum", "Hab": "Habakkuk", "Soph": "Zephaniah",
	"Agg": "Haggai", "Zach": "Zechariah", "Mal": "Malachi",

	"Mt": "Matthew", "Mk": "Mark", "Lk": "Luke", "Joh": "John",

	"Acts": "Acts", "Rom": "Romans", "1 Cor": "1 Corinthians", "2 Cor": "2 Corinthians",
	"Gal": "Galatians", "Eph": "Ephesians", "Phil": "Philippians", "Col": "Colossians",
	"1 Thes": "1 Thessalonians", "2 Thes": "2 Thessalonians",
	"1 Tim": "1 Timothy", "2 Tim": "2 Timothy", "Tit": "Titus", "Phlm": "Philemon",
	"Hebr": "Hebrews",

	// "Iud" is ambiguous in the source data (Judges and Jude); the Jude
	// reading has always been the one shown.
	"Iac": "James", "1 Pet": "1 Peter", "2 Pet": "2 Peter",
	"1 Joh": "1 John", "2 Joh": "2 John", "3 Joh": "3 John", "Iud": "Jude",

	"Rev": "Revelation",
}

// BookOrder returns the canonical position of a book abbreviation.
func BookOrder(abbrev string) (int, bool) {
	n, ok := novaVulgataOrder[abbrev]
	return n, ok
}

// BookName returns the English name of a book abbreviation, or the
// abbreviation itself when it is not known.
func BookName(abbrev string) string {
	if name, ok := bookNames[abbrev]; ok {
		return name
	}
	return abbrev
}
