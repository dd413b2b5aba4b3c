package analytics

// DefaultLexicon devuelve una lista de polaridad estilo AFINN (-5..+5) orientada al
// vocabulario de las encuestas. Cada llamada devuelve un mapa nuevo.
func DefaultLexicon() Lexicon {
	return Lexicon{
		"abandon":      -2,
		"abandoned":    -2,
		"abuse":        -3,
		"abused":       -3,
		"abusive":      -3,
		"active":       1,
		"addicted":     -2,
		"addiction":    -2,
		"afraid":       -2,
		"aggression":   -2,
		"aggressive":   -2,
		"alcoholic":    -2,
		"alone":        -2,
		"amazing":      4,
		"anger":        -3,
		"angry":        -3,
		"annoyed":      -2,
		"anxiety":      -2,
		"anxious":      -2,
		"ashamed":      -2,
		"attentive":    2,
		"awful":        -3,
		"bad":          -3,
		"beaten":       -2,
		"beating":      -2,
		"best":         3,
		"better":       2,
		"brave":        2,
		"bright":       1,
		"brilliant":    4,
		"broken":       -1,
		"bullied":      -2,
		"bully":        -2,
		"calm":         2,
		"care":         2,
		"careless":     -2,
		"caring":       2,
		"catastrophic": -4,
		"cheerful":     2,
		"clever":       2,
		"confidence":   2,
		"confident":    2,
		"confused":     -2,
		"courage":      2,
		"cruel":        -3,
		"cry":          -1,
		"crying":       -2,
		"curious":      1,
		"dedicated":    2,
		"depressed":    -2,
		"depression":   -2,
		"desperate":    -3,
		"destroyed":    -3,
		"determined":   2,
		"difficult":    -1,
		"disaster":     -2,
		"disciplined":  2,
		"distracted":   -2,
		"disturbed":    -2,
		"drunk":        -2,
		"eager":        2,
		"encouraged":   2,
		"energetic":    2,
		"excellent":    3,
		"excited":      3,
		"fail":         -2,
		"failed":       -2,
		"failing":      -2,
		"failure":      -2,
		"fantastic":    4,
		"fear":         -2,
		"fearful":      -2,
		"fight":        -1,
		"fighting":     -2,
		"fights":       -1,
		"focused":      2,
		"friendly":     2,
		"frustrated":   -2,
		"generous":     2,
		"gentle":       2,
		"good":         3,
		"great":        3,
		"grief":        -2,
		"guilty":       -3,
		"happy":        3,
		"hardworking":  2,
		"harsh":        -2,
		"hate":         -3,
		"healthy":      2,
		"helpful":      2,
		"helpless":     -2,
		"honest":       2,
		"hope":         2,
		"hopeful":      2,
		"hopeless":     -2,
		"horrible":     -3,
		"hostile":      -2,
		"hungry":       -1,
		"hurt":         -2,
		"ignored":      -2,
		"ill":          -2,
		"improve":      2,
		"improved":     2,
		"improvement":  2,
		"improving":    2,
		"inspire":      2,
		"inspired":     2,
		"inspiring":    3,
		"insecure":     -2,
		"intelligent":  2,
		"irritable":    -2,
		"isolated":     -1,
		"joy":          3,
		"kind":         2,
		"lack":         -2,
		"lazy":         -1,
		"lonely":       -2,
		"lost":         -3,
		"love":         3,
		"loved":        3,
		"loving":       2,
		"mad":          -3,
		"miserable":    -3,
		"motivated":    2,
		"neglect":      -2,
		"neglected":    -2,
		"nervous":      -2,
		"obedient":     1,
		"outstanding":  5,
		"pain":         -2,
		"passionate":   2,
		"patient":      2,
		"peaceful":     2,
		"poor":         -2,
		"positive":     2,
		"pressure":     -1,
		"problem":      -2,
		"problems":     -2,
		"progress":     2,
		"proud":        2,
		"quarrel":      -2,
		"quarrels":     -2,
		"respect":      2,
		"respectful":   2,
		"responsible":  2,
		"restless":     -2,
		"rude":         -2,
		"sad":          -2,
		"sadness":      -2,
		"scared":       -2,
		"severe":       -2,
		"shy":          -1,
		"sick":         -2,
		"smart":        1,
		"smile":        2,
		"strong":       2,
		"struggle":     -2,
		"struggles":    -2,
		"struggling":   -2,
		"stress":       -1,
		"stressed":     -2,
		"stubborn":     -2,
		"successful":   3,
		"superb":       5,
		"support":      2,
		"supportive":   2,
		"talented":     2,
		"terrible":     -3,
		"terrified":    -3,
		"thrilled":     5,
		"trauma":       -3,
		"traumatic":    -3,
		"traumatized":  -3,
		"troubled":     -2,
		"trust":        1,
		"ugly":         -3,
		"unhappy":      -2,
		"unstable":     -2,
		"upset":        -2,
		"violence":     -3,
		"violent":      -3,
		"weak":         -2,
		"wise":         2,
		"withdrawn":    -2,
		"wonderful":    4,
		"worried":      -3,
		"worry":        -3,
		"worse":        -3,
		"worst":        -3,
		"worthless":    -2,
	}
}

// BackgroundLexicon agrega ocupaciones y condiciones del hogar, recentradas en -2..+2.
// Se combina con DefaultLexicon para puntuar el texto de contexto familiar.
func BackgroundLexicon() Lexicon {
	return Lexicon{
		"accountant":   1,
		"architect":    2,
		"army":         2,
		"beggar":       -2,
		"clerk":        1,
		"coolie":       -2,
		"cook":         1,
		"doctor":       2,
		"electrician":  1,
		"engineer":     2,
		"entrepreneur": 2,
		"factory":      -1,
		"garbage":      -2,
		"goldsmith":    1,
		"government":   1,
		"housekeeper":  -1,
		"labour":       -1,
		"labourer":     -2,
		"landless":     -1,
		"maid":         -1,
		"manager":      2,
		"mechanic":     1,
		"middle":       1,
		"orphan":       -2,
		"plumber":      1,
		"police":       1,
		"professor":    2,
		"ragpicker":    -2,
		"researcher":   2,
		"rickshaw":     -2,
		"security":     -1,
		"sweeper":      -1,
		"teacher":      1,
		"unemployed":   -2,
		"wage":         -1,
		"watchman":     -1,
	}
}
