package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/poiesic/clinrank"
	"github.com/poiesic/clinrank/core"
)

var (
	dbPath   = flag.String("db", "./directory_db", "path to the BadgerDB database directory")
	seedFile = flag.String("file", "", "optional JSON file with an array of profiles to seed instead of the built-in set")
)

var profiles = []*core.Candidate{
	{
		Name:              "Dr Amelia Hart",
		Title:             "Consultant Cardiologist",
		Specialty:         "Cardiology",
		Subspecialties:    []string{"Electrophysiology"},
		ClinicalExpertise: "Procedures: catheter ablation, pacemaker implantation; Conditions: atrial fibrillation, SVT, heart palpitations",
		ProcedureGroups:   []string{"Ablation", "Device Implantation"},
		Description:       "Specialist in heart rhythm disorders and catheter ablation.",
		Memberships:       []string{"British Heart Rhythm Society"},
		Languages:         []string{"English"},
		AddressLocality:   "London",
		Gender:            "Female",
		AgeGroups:         []string{"adults"},
		Rating:            4.9,
		ReviewCount:       142,
		YearsExperience:   21,
		Verified:          true,
	},
	{
		Name:              "Dr Rajan Mehta",
		Title:             "Consultant Interventional Cardiologist",
		Specialty:         "Cardiology",
		Subspecialties:    []string{"Interventional Cardiology"},
		ClinicalExpertise: "Procedures: coronary angiography, angioplasty, stent insertion; Conditions: angina, coronary artery disease",
		ProcedureGroups:   []string{"Angioplasty"},
		Description:       "Interventional cardiologist focused on coronary artery disease.",
		Languages:         []string{"English", "Hindi"},
		AddressLocality:   "Birmingham",
		Gender:            "Male",
		AgeGroups:         []string{"adults"},
		Rating:            4.7,
		ReviewCount:       98,
		YearsExperience:   17,
		Verified:          true,
	},
	{
		Name:              "Dr Sofia Lindqvist",
		Title:             "Consultant Neurologist",
		Specialty:         "Neurology",
		ClinicalExpertise: "Procedures: EEG, nerve conduction studies; Conditions: epilepsy, migraine, multiple sclerosis",
		Description:       "Neurologist with a special interest in seizure disorders.",
		Languages:         []string{"English", "Swedish"},
		AddressLocality:   "Manchester",
		Gender:            "Female",
		AgeGroups:         []string{"adults"},
		Rating:            4.8,
		ReviewCount:       76,
		YearsExperience:   14,
		Verified:          true,
	},
	{
		Name:              "Mr David Okafor",
		Title:             "Consultant Orthopaedic Surgeon",
		Specialty:         "Orthopaedic Surgery",
		Subspecialties:    []string{"Knee Surgery"},
		ClinicalExpertise: "Procedures: knee replacement, arthroscopy, ACL reconstruction; Conditions: osteoarthritis, sports injuries",
		ProcedureGroups:   []string{"Joint Replacement"},
		Description:       "Knee surgeon specialising in replacement and sports injuries.",
		Languages:         []string{"English"},
		AddressLocality:   "Leeds",
		Gender:            "Male",
		AgeGroups:         []string{"adults"},
		Rating:            4.6,
		ReviewCount:       110,
		YearsExperience:   19,
		Verified:          true,
	},
	{
		Name:              "Dr Hannah Cohen",
		Title:             "Consultant Paediatrician",
		Specialty:         "Paediatrics",
		ClinicalExpertise: "Conditions: asthma, eczema, developmental delay; Special interests: childhood allergy",
		Description:       "General paediatrician seeing children of all ages.",
		Languages:         []string{"English", "Hebrew"},
		AddressLocality:   "London",
		Gender:            "Female",
		AgeGroups:         []string{"children"},
		Rating:            4.9,
		ReviewCount:       88,
		YearsExperience:   12,
		Verified:          true,
	},
	{
		Name:              "Dr Marcus Webb",
		Title:             "Consultant Gastroenterologist",
		Specialty:         "Gastroenterology",
		ClinicalExpertise: "Procedures: endoscopy, colonoscopy; Conditions: IBS, Crohn's disease, coeliac disease",
		ProcedureGroups:   []string{"Endoscopy"},
		Description:       "Gastroenterologist with a focus on inflammatory bowel disease.",
		Languages:         []string{"English"},
		AddressLocality:   "Bristol",
		Gender:            "Male",
		AgeGroups:         []string{"adults"},
		Rating:            4.5,
		ReviewCount:       64,
		YearsExperience:   16,
		Verified:          true,
	},
	{
		Name:              "Dr Priya Nair",
		Title:             "Consultant Dermatologist",
		Specialty:         "Dermatology",
		ClinicalExpertise: "Procedures: mole removal, skin biopsy; Conditions: acne, eczema, psoriasis, skin cancer",
		Description:       "Dermatologist running general and skin cancer clinics.",
		Languages:         []string{"English", "Malayalam"},
		AddressLocality:   "London",
		Gender:            "Female",
		AgeGroups:         []string{"adults", "children"},
		Rating:            4.8,
		ReviewCount:       153,
		YearsExperience:   15,
		Verified:          true,
	},
	{
		Name:              "Dr Tomasz Kowalski",
		Title:             "Consultant Oncologist",
		Specialty:         "Oncology",
		Subspecialties:    []string{"Medical Oncology"},
		ClinicalExpertise: "Procedures: chemotherapy, immunotherapy; Conditions: breast cancer, lung cancer",
		Description:       "Medical oncologist treating solid tumours.",
		Languages:         []string{"English", "Polish"},
		AddressLocality:   "Manchester",
		Gender:            "Male",
		AgeGroups:         []string{"adults"},
		Rating:            4.7,
		ReviewCount:       71,
		YearsExperience:   18,
		Verified:          true,
	},
}

func main() {
	flag.Parse()

	dir, err := clinrank.NewDirectory(*dbPath)
	if err != nil {
		panic(err)
	}
	defer dir.Close()

	ingester, err := dir.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer ingester.Release()

	ctx := context.Background()

	seed := profiles
	if *seedFile != "" {
		data, err := os.ReadFile(*seedFile)
		if err != nil {
			panic(err)
		}
		seed = nil
		if err := json.Unmarshal(data, &seed); err != nil {
			panic(err)
		}
	}

	if err := ingester.IngestProfiles(ctx, seed...); err != nil {
		panic(err)
	}
}
