// Command generate_demo creates a demo database with sample content: a run of
// study lessons, a week of psalm devotionals and a handful of public domain
// hymns. Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/datatypes"

	"github.com/comforterslodge/lodge/internal/config"
	"github.com/comforterslodge/lodge/internal/database"
	"github.com/comforterslodge/lodge/internal/database/devotionals"
	"github.com/comforterslodge/lodge/internal/database/hymns"
	"github.com/comforterslodge/lodge/internal/database/lessons"
	"github.com/comforterslodge/lodge/internal/entities"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create demo directory: %v", err)
	}

	db, err := database.NewDatabase(config.Database{Path: *dbPath})
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	lessonBatch := sampleLessons()
	if err := lessons.NewRepository(db.DB).CreateBatch(lessonBatch); err != nil {
		log.Fatalf("Failed to seed lessons: %v", err)
	}
	log.Printf("Seeded %d lessons", len(lessonBatch))

	devotionalBatch := psalmDevotionals()
	if err := devotionals.NewRepository(db.DB).CreateBatch(devotionalBatch); err != nil {
		log.Fatalf("Failed to seed devotionals: %v", err)
	}
	log.Printf("Seeded %d devotionals", len(devotionalBatch))

	hymnBatch := publicDomainHymns()
	if err := hymns.NewRepository(db.DB).CreateBatch(hymnBatch); err != nil {
		log.Fatalf("Failed to seed hymns: %v", err)
	}
	log.Printf("Seeded %d hymns", len(hymnBatch))

	log.Println("Demo database generated successfully!")
}

// day returns today's date shifted by the given number of days. Seed dates
// straddle today so the daily feed has history and an up-next entry.
func day(offset int) time.Time {
	return entities.Today().AddDate(0, 0, offset)
}

func sampleLessons() []*entities.Lesson {
	return []*entities.Lesson{
		{
			SeriesTitle:      "The Beatitudes",
			Theme:            "Blessed are the poor in spirit",
			OpeningHook:      "What would it mean to come to God with completely empty hands?",
			PersonalQuestion: "Where in your life are you still trying to earn what can only be received?",
			BiblicalQA:       "Q: Who does Jesus call blessed first? A: The poor in spirit, for theirs is the kingdom of heaven (Matthew 5:3).",
			Reflection:       "The sermon opens not with a demand but with a blessing on those who have nothing to offer. Spiritual poverty is not a failure to overcome; it is the doorway every disciple walks through.",
			Story:            "A church member once described the day her savings ran out as the first day she actually prayed instead of reciting. She had joined the poor in spirit without meaning to, and found them blessed.",
			Prayer:           "Father, empty our hands of everything we hold up as credit, and fill them with your kingdom. Amen.",
			ActivityGuide:    "In pairs, list three things people lean on instead of God. Share one you are personally tempted by and pray for each other.",
			DatePosted:       day(-5),
		},
		{
			SeriesTitle:      "The Beatitudes",
			Theme:            "Blessed are those who mourn",
			OpeningHook:      "We spend most of our energy avoiding grief; Jesus blesses it.",
			PersonalQuestion: "What loss have you never allowed yourself to mourn before God?",
			BiblicalQA:       "Q: What is promised to those who mourn? A: They shall be comforted (Matthew 5:4).",
			Reflection:       "Mourning is the honest response to a broken world, and comfort is God's own reply. The blessing is not in the sorrow itself but in the Comforter it makes room for.",
			Story:            "After the funeral of his wife, an elder kept attending the midweek prayer meeting. Asked why, he said the promise was to those who mourn, so that was where he intended to stand.",
			Prayer:           "Lord, teach us to grieve what you grieve, and meet us there with the comfort you promised. Amen.",
			ActivityGuide:    "Read Matthew 5:4 and 2 Corinthians 1:3-4 aloud. Discuss how received comfort becomes comfort passed on.",
			DatePosted:       day(-4),
		},
		{
			SeriesTitle:      "Parables of the Kingdom",
			Theme:            "The mustard seed",
			OpeningHook:      "The kingdom's beginnings are small enough to overlook and alive enough to outgrow everything.",
			PersonalQuestion: "What small act of faithfulness have you dismissed as too insignificant to matter?",
			BiblicalQA:       "Q: What does the mustard seed become? A: The greatest of shrubs, so the birds of the air nest in its branches (Matthew 13:31-32).",
			Reflection:       "Jesus never apologizes for small beginnings. The parable asks us to trust growth we cannot see and cannot force, because the life is in the seed and not in the sower's anxiety.",
			Story:            "A Sunday class of four children met in a hallway for years. Two of them now lead congregations of their own. Nobody photographed the hallway.",
			Prayer:           "God of small seeds, keep us faithful in hidden things and patient with your timing. Amen.",
			ActivityGuide:    "Have each person name one seed-sized commitment for the coming month and write it on a card to keep.",
			DatePosted:       day(-3),
		},
		{
			SeriesTitle:      "Parables of the Kingdom",
			Theme:            "The lost sheep",
			OpeningHook:      "Ninety-nine sheep are safe, and the shepherd's whole attention is on the one that is not.",
			PersonalQuestion: "Who is the one person you have quietly written off as unreachable?",
			BiblicalQA:       "Q: What does the shepherd do when he finds the sheep? A: He lays it on his shoulders, rejoicing (Luke 15:5).",
			Reflection:       "The math of the parable offends every spreadsheet: leaving the many for the one. But heaven's joy is counted one recovered sinner at a time, and the church is asked to count the same way.",
			Story:            "A congregation kept one empty chair in the front row for a member who had walked away. The chair preached every week until the week it was filled.",
			Prayer:           "Good Shepherd, give us your arithmetic, your patience, and your shoulders. Amen.",
			ActivityGuide:    "As a group, pray by name for one person who has drifted from the fellowship, and agree on one concrete act of welcome.",
			DatePosted:       day(-2),
		},
		{
			SeriesTitle:      "Psalms of Trust",
			Theme:            "The Lord is my shepherd",
			OpeningHook:      "The most famous psalm is a list of things a sheep never has to worry about.",
			PersonalQuestion: "Which phrase of Psalm 23 is hardest for you to say in the first person?",
			BiblicalQA:       "Q: Why does the psalmist fear no evil in the valley? A: Because the shepherd is with him; his rod and staff are a comfort (Psalm 23:4).",
			Reflection:       "Psalm 23 does not promise a life without valleys. It promises company in them, provision through them, and a table at the end of them.",
			Story:            "A hospital chaplain reports that patients who can no longer hold a conversation will still finish Psalm 23 aloud if she begins it. The psalm holds them when memory fails.",
			Prayer:           "Shepherd of our souls, lead us beside still waters this week, and keep us close in every valley. Amen.",
			ActivityGuide:    "Rewrite Psalm 23 in your own words, one verse each, and read the group's version together.",
			DatePosted:       day(-1),
		},
		{
			SeriesTitle:      "Psalms of Trust",
			Theme:            "God our refuge and strength",
			OpeningHook:      "When the ground itself gives way, the psalmist's response is 'therefore we will not fear.'",
			PersonalQuestion: "What would you stop fearing this week if you believed Psalm 46 completely?",
			BiblicalQA:       "Q: What are God's people told to do while nations rage? A: Be still, and know that he is God (Psalm 46:10).",
			Reflection:       "The psalm never denies the earthquake; it relocates our footing. Refuge is not the absence of trouble but the presence of God inside it.",
			Story:            "The congregation that met in a borrowed gym after their building flooded sang 'A Mighty Fortress' at the first service. Luther built that hymn on this psalm for exactly such mornings.",
			Prayer:           "Lord of hosts, be our refuge when things shake, and our stillness when we cannot stop shaking. Amen.",
			ActivityGuide:    "List the 'mountains' currently moving in your community. Beside each, write the phrase from Psalm 46 that answers it.",
			DatePosted:       day(0),
		},
		{
			SeriesTitle:      "Fruit of the Spirit",
			Theme:            "Love",
			OpeningHook:      "Paul lists nine qualities but calls them one fruit, and love is named first.",
			PersonalQuestion: "Who receives the leftovers of your love rather than its first portion?",
			BiblicalQA:       "Q: What is the first fruit of the Spirit? A: Love (Galatians 5:22).",
			Reflection:       "Fruit is grown, not manufactured. The command to love comes with the Spirit who produces it, which is why the passage is about walking, not straining.",
			Story:            "A new believer asked how long it takes to love difficult people. Her mentor pointed at the orchard behind the church and said, 'About as long as those apples, every year, again.'",
			Prayer:           "Spirit of God, grow in us the love we cannot produce, starting with the people nearest us. Amen.",
			ActivityGuide:    "Read 1 Corinthians 13:4-7, replacing the word 'love' with your own name. Discuss where the sentence breaks down and pray over it.",
			DatePosted:       day(1),
		},
	}
}

func psalmDevotionals() []*entities.Devotional {
	return []*entities.Devotional{
		{
			Citation:     "Psalm 23:1",
			VerseContent: "The LORD is my shepherd; I shall not want.",
			DatePosted:   day(-6),
		},
		{
			Citation:     "Psalm 46:1",
			VerseContent: "God is our refuge and strength, a very present help in trouble.",
			DatePosted:   day(-5),
		},
		{
			Citation:     "Psalm 119:105",
			VerseContent: "Thy word is a lamp unto my feet, and a light unto my path.",
			DatePosted:   day(-4),
		},
		{
			Citation:     "Psalm 121:1-2",
			VerseContent: "I will lift up mine eyes unto the hills, from whence cometh my help. My help cometh from the LORD, which made heaven and earth.",
			DatePosted:   day(-3),
		},
		{
			Citation:     "Psalm 27:1",
			VerseContent: "The LORD is my light and my salvation; whom shall I fear? the LORD is the strength of my life; of whom shall I be afraid?",
			DatePosted:   day(-2),
		},
		{
			Citation:     "Psalm 34:8",
			VerseContent: "O taste and see that the LORD is good: blessed is the man that trusteth in him.",
			DatePosted:   day(-1),
		},
		{
			Citation:     "Psalm 90:12",
			VerseContent: "So teach us to number our days, that we may apply our hearts unto wisdom.",
			DatePosted:   day(0),
		},
		{
			Citation:     "Psalm 100:4",
			VerseContent: "Enter into his gates with thanksgiving, and into his courts with praise: be thankful unto him, and bless his name.",
			DatePosted:   day(1),
		},
	}
}

func publicDomainHymns() []*entities.Hymn {
	return []*entities.Hymn{
		{
			HymnNumber:     1,
			HymnTitle:      "Amazing Grace",
			Classification: "Grace",
			TuneRef:        "NEW BRITAIN",
			Scripture:      "Ephesians 2:8",
			Verses: datatypes.JSONSlice[string]{
				"Amazing grace! how sweet the sound, That saved a wretch like me! I once was lost, but now am found, Was blind, but now I see.",
				"'Twas grace that taught my heart to fear, And grace my fears relieved; How precious did that grace appear The hour I first believed!",
				"Through many dangers, toils and snares, I have already come; 'Tis grace hath brought me safe thus far, And grace will lead me home.",
				"When we've been there ten thousand years, Bright shining as the sun, We've no less days to sing God's praise Than when we'd first begun.",
			},
		},
		{
			HymnNumber:     12,
			HymnTitle:      "Holy, Holy, Holy",
			Classification: "Adoration",
			TuneRef:        "NICAEA",
			Scripture:      "Revelation 4:8",
			Verses: datatypes.JSONSlice[string]{
				"Holy, holy, holy! Lord God Almighty! Early in the morning our song shall rise to Thee; Holy, holy, holy! merciful and mighty! God in three Persons, blessed Trinity!",
				"Holy, holy, holy! all the saints adore Thee, Casting down their golden crowns around the glassy sea; Cherubim and seraphim falling down before Thee, Which wert, and art, and evermore shalt be.",
				"Holy, holy, holy! Lord God Almighty! All Thy works shall praise Thy name, in earth, and sky, and sea; Holy, holy, holy! merciful and mighty! God in three Persons, blessed Trinity!",
			},
		},
		{
			HymnNumber:     45,
			HymnTitle:      "It Is Well with My Soul",
			Classification: "Comfort",
			TuneRef:        "VILLE DU HAVRE",
			CrossRef:       "See also: Like a River Glorious",
			Scripture:      "2 Kings 4:26",
			ChorusTitle:    "It Is Well",
			Chorus:         "It is well with my soul, It is well, it is well with my soul.",
			Verses: datatypes.JSONSlice[string]{
				"When peace like a river attendeth my way, When sorrows like sea billows roll; Whatever my lot, Thou hast taught me to say, It is well, it is well with my soul.",
				"Though Satan should buffet, though trials should come, Let this blest assurance control, That Christ hath regarded my helpless estate, And hath shed His own blood for my soul.",
				"And, Lord, haste the day when the faith shall be sight, The clouds be rolled back as a scroll; The trump shall resound and the Lord shall descend, Even so, it is well with my soul.",
			},
		},
		{
			HymnNumber:     77,
			HymnTitle:      "What a Friend We Have in Jesus",
			Classification: "Comfort",
			TuneRef:        "CONVERSE",
			Scripture:      "John 15:15",
			Verses: datatypes.JSONSlice[string]{
				"What a Friend we have in Jesus, All our sins and griefs to bear! What a privilege to carry Everything to God in prayer!",
				"Have we trials and temptations? Is there trouble anywhere? We should never be discouraged: Take it to the Lord in prayer.",
				"Are we weak and heavy laden, Cumbered with a load of care? Precious Savior, still our refuge, Take it to the Lord in prayer.",
			},
		},
		{
			HymnNumber:     103,
			HymnTitle:      "Blessed Assurance",
			Classification: "Assurance",
			TuneRef:        "ASSURANCE",
			Scripture:      "Hebrews 10:22",
			ChorusTitle:    "This Is My Story",
			Chorus:         "This is my story, this is my song, Praising my Savior all the day long; This is my story, this is my song, Praising my Savior all the day long.",
			Verses: datatypes.JSONSlice[string]{
				"Blessed assurance, Jesus is mine! O what a foretaste of glory divine! Heir of salvation, purchase of God, Born of His Spirit, washed in His blood.",
				"Perfect submission, perfect delight, Visions of rapture now burst on my sight; Angels descending bring from above Echoes of mercy, whispers of love.",
				"Perfect submission, all is at rest, I in my Savior am happy and blest; Watching and waiting, looking above, Filled with His goodness, lost in His love.",
			},
		},
		{
			HymnNumber:     208,
			HymnTitle:      "Rock of Ages",
			Classification: "Refuge",
			TuneRef:        "TOPLADY",
			Scripture:      "Psalm 94:22",
			Verses: datatypes.JSONSlice[string]{
				"Rock of Ages, cleft for me, Let me hide myself in Thee; Let the water and the blood, From Thy wounded side which flowed, Be of sin the double cure, Save from wrath and make me pure.",
				"Not the labors of my hands Can fulfill Thy law's demands; Could my zeal no respite know, Could my tears forever flow, All for sin could not atone; Thou must save, and Thou alone.",
				"While I draw this fleeting breath, When mine eyes shall close in death, When I soar to worlds unknown, See Thee on Thy judgment throne, Rock of Ages, cleft for me, Let me hide myself in Thee.",
			},
		},
	}
}
