package lexicon

// brandToGeneric maps brand or trade names to their generic (INN) name.
var brandToGeneric = map[string]string{
	// Analgesics / NSAIDs
	"Celcoxx":  "Celecoxib",
	"Celebrex": "Celecoxib",
	"Tylenol":  "Acetaminophen",
	"Panadol":  "Paracetamol",
	"Advil":    "Ibuprofen",
	"Motrin":   "Ibuprofen",
	"Nurofen":  "Ibuprofen",
	"Voltaren": "Diclofenac",
	"Cataflam": "Diclofenac",
	"Aleve":    "Naproxen",
	"Mobic":    "Meloxicam",
	"Feldene":  "Piroxicam",
	"Arcoxia":  "Etoricoxib",
	"Toradol":  "Ketorolac",
	"Ultram":   "Tramadol",
	// Antibiotics
	"Augmentin":  "Co-Amoxiclav",
	"Amoxil":     "Amoxicillin",
	"Zithromax":  "Azithromycin",
	"Ciprobay":   "Ciprofloxacin",
	"Flagyl":     "Metronidazole",
	"Klacid":     "Clarithromycin",
	"Biaxin":     "Clarithromycin",
	"Vibramycin": "Doxycycline",
	"Keflex":     "Cefalexin",
	"Rocephin":   "Ceftriaxone",
	"Suprax":     "Cefixime",
	"Zinnat":     "Cefuroxime",
	"Bactrim":    "Cotrimoxazole",
	"Tavanic":    "Levofloxacin",
	"Avelox":     "Moxifloxacin",
	// Gastrointestinal
	"Losec":    "Omeprazole",
	"Prilosec": "Omeprazole",
	"Nexium":   "Esomeprazole",
	"Prevacid": "Lansoprazole",
	"Protonix": "Pantoprazole",
	"Pariet":   "Rabeprazole",
	"Zantac":   "Ranitidine",
	"Pepcid":   "Famotidine",
	"Motilium": "Domperidone",
	"Imodium":  "Loperamide",
	"Buscopan": "Butylscopolamine",
	"Carafate": "Sucralfate",
	"Cytotec":  "Misoprostol",
	// Cardiovascular
	"Norvasc":   "Amlodipine",
	"Lipitor":   "Atorvastatin",
	"Zocor":     "Simvastatin",
	"Crestor":   "Rosuvastatin",
	"Cozaar":    "Losartan",
	"Diovan":    "Valsartan",
	"Atacand":   "Candesartan",
	"Micardis":  "Telmisartan",
	"Vasotec":   "Enalapril",
	"Zestril":   "Lisinopril",
	"Prinivil":  "Lisinopril",
	"Altace":    "Ramipril",
	"Capoten":   "Captopril",
	"Inderal":   "Propranolol",
	"Tenormin":  "Atenolol",
	"Lopressor": "Metoprolol",
	"Toprol":    "Metoprolol",
	"Concor":    "Bisoprolol",
	"Adalat":    "Nifedipine",
	"Cardizem":  "Diltiazem",
	"Isoptin":   "Verapamil",
	"Lasix":     "Furosemide",
	"Aldactone": "Spironolactone",
	"Coumadin":  "Warfarin",
	"Plavix":    "Clopidogrel",
	"Lanoxin":   "Digoxin",
	"Imdur":     "Isosorbide Mononitrate",
	// Diabetes
	"Glucophage": "Metformin",
	"Amaryl":     "Glimepiride",
	"Diamicron":  "Gliclazide",
	"Glucotrol":  "Glipizide",
	"Januvia":    "Sitagliptin",
	"Trajenta":   "Linagliptin",
	"Forxiga":    "Dapagliflozin",
	"Actos":      "Pioglitazone",
	// CNS / Psychiatric
	"Prozac":    "Fluoxetine",
	"Paxil":     "Paroxetine",
	"Zoloft":    "Sertraline",
	"Effexor":   "Venlafaxine",
	"Remeron":   "Mirtazapine",
	"Elavil":    "Amitriptyline",
	"Seroquel":  "Quetiapine",
	"Zyprexa":   "Olanzapine",
	"Risperdal": "Risperidone",
	"Haldol":    "Haloperidol",
	"Valium":    "Diazepam",
	"Xanax":     "Alprazolam",
	"Ativan":    "Lorazepam",
	"Klonopin":  "Clonazepam",
	"Ambien":    "Zolpidem",
	"Neurontin": "Gabapentin",
	"Tegretol":  "Carbamazepine",
	"Depakote":  "Divalproex",
	"Keppra":    "Levetiracetam",
	"Dilantin":  "Phenytoin",
	"Trileptal": "Oxcarbazepine",
	"Aricept":   "Donepezil",
	"Namenda":   "Memantine",
	// Respiratory
	"Ventolin":   "Salbutamol",
	"Proventil":  "Albuterol",
	"Singulair":  "Montelukast",
	"Zyrtec":     "Cetirizine",
	"Xyzal":      "Levocetirizine",
	"Claritin":   "Loratadine",
	"Allegra":    "Fexofenadine",
	"Benadryl":   "Diphenhydramine",
	"Piriton":    "Chlorpheniramine",
	"Mucosolvan": "Ambroxol",
	"Bisolvon":   "Bromhexine",
	"Pulmicort":  "Budesonide",
	"Flixotide":  "Fluticasone",
	// Antifungals / antivirals
	"Diflucan":   "Fluconazole",
	"Nizoral":    "Ketoconazole",
	"Sporanox":   "Itraconazole",
	"Lamisil":    "Terbinafine",
	"Zovirax":    "Acyclovir",
	"Tamiflu":    "Oseltamivir",
	// Corticosteroids / endocrine
	"Medrol":    "Methylprednisolone",
	"Deltasone": "Prednisone",
	"Synthroid": "Levothyroxine",
	"Eltroxin":  "Levothyroxine",
	// Urological / antiparasitics
	"Flomax":     "Tamsulosin",
	"Vermox":     "Mebendazole",
	"Zentel":     "Albendazole",
	"Stromectol": "Ivermectin",
	// Vitamins (alternate spellings)
	"Multivitamine": "Multivitamin",
}

// therapeuticClasses maps generic drug names to a human-readable
// therapeutic class.
var therapeuticClasses = map[string]string{
	"Acetaminophen": "Analgesic / Antipyretic",
	"Paracetamol":   "Analgesic / Antipyretic",
	"Aspirin":       "NSAID / Antiplatelet",
	"Celecoxib":     "NSAID (COX-2 Inhibitor)",
	"Diclofenac":    "NSAID",
	"Etoricoxib":    "NSAID (COX-2 Inhibitor)",
	"Ibuprofen":     "NSAID",
	"Ketorolac":     "NSAID",
	"Meloxicam":     "NSAID",
	"Naproxen":      "NSAID",
	"Piroxicam":     "NSAID",
	"Codeine":       "Opioid Analgesic",
	"Morphine":      "Opioid Analgesic",
	"Tramadol":      "Opioid Analgesic",

	"Amoxicillin":    "Antibiotic (Penicillin)",
	"Ampicillin":     "Antibiotic (Penicillin)",
	"Co-Amoxiclav":   "Antibiotic (Penicillin + Beta-lactamase Inhibitor)",
	"Cloxacillin":    "Antibiotic (Penicillin)",
	"Cefalexin":      "Antibiotic (Cephalosporin)",
	"Cefixime":       "Antibiotic (Cephalosporin)",
	"Ceftriaxone":    "Antibiotic (Cephalosporin)",
	"Cefuroxime":     "Antibiotic (Cephalosporin)",
	"Azithromycin":   "Antibiotic (Macrolide)",
	"Clarithromycin": "Antibiotic (Macrolide)",
	"Erythromycin":   "Antibiotic (Macrolide)",
	"Ciprofloxacin":  "Antibiotic (Fluoroquinolone)",
	"Levofloxacin":   "Antibiotic (Fluoroquinolone)",
	"Moxifloxacin":   "Antibiotic (Fluoroquinolone)",
	"Doxycycline":    "Antibiotic (Tetracycline)",
	"Tetracycline":   "Antibiotic (Tetracycline)",
	"Clindamycin":    "Antibiotic (Lincosamide)",
	"Cotrimoxazole":  "Antibiotic (Sulfonamide)",
	"Gentamicin":     "Antibiotic (Aminoglycoside)",
	"Metronidazole":  "Antibiotic / Antiprotozoal",
	"Nitrofurantoin": "Antibiotic (Urinary)",

	"Clotrimazole": "Antifungal",
	"Fluconazole":  "Antifungal",
	"Itraconazole": "Antifungal",
	"Ketoconazole": "Antifungal",
	"Nystatin":     "Antifungal",
	"Terbinafine":  "Antifungal",
	"Acyclovir":    "Antiviral",
	"Oseltamivir":  "Antiviral",
	"Albendazole":  "Anthelmintic",
	"Mebendazole":  "Anthelmintic",
	"Ivermectin":   "Antiparasitic",
	"Artesunate":   "Antimalarial",
	"Chloroquine":  "Antimalarial",
	"Quinine":      "Antimalarial",
	"Isoniazid":    "Anti-Tuberculosis",
	"Rifampicin":   "Anti-Tuberculosis",

	"Butylscopolamine": "Antispasmodic",
	"Domperidone":      "Prokinetic / Antiemetic",
	"Esomeprazole":     "Proton Pump Inhibitor",
	"Famotidine":       "H2 Receptor Antagonist",
	"Lactulose":        "Laxative",
	"Lansoprazole":     "Proton Pump Inhibitor",
	"Loperamide":       "Antidiarrheal",
	"Metoclopramide":   "Prokinetic / Antiemetic",
	"Misoprostol":      "Prostaglandin Analogue",
	"Omeprazole":       "Proton Pump Inhibitor",
	"Ondansetron":      "Antiemetic (5-HT3 Antagonist)",
	"Pantoprazole":     "Proton Pump Inhibitor",
	"Rabeprazole":      "Proton Pump Inhibitor",
	"Ranitidine":       "H2 Receptor Antagonist",
	"Sucralfate":       "Mucosal Protectant",
	"Bisacodyl":        "Laxative",

	"Amlodipine":             "Calcium Channel Blocker",
	"Atenolol":               "Beta Blocker",
	"Bisoprolol":             "Beta Blocker",
	"Candesartan":            "Angiotensin II Receptor Blocker",
	"Captopril":              "ACE Inhibitor",
	"Carvedilol":             "Beta Blocker",
	"Diltiazem":              "Calcium Channel Blocker",
	"Enalapril":              "ACE Inhibitor",
	"Hydrochlorothiazide":    "Diuretic (Thiazide)",
	"Irbesartan":             "Angiotensin II Receptor Blocker",
	"Lisinopril":             "ACE Inhibitor",
	"Losartan":               "Angiotensin II Receptor Blocker",
	"Metoprolol":             "Beta Blocker",
	"Nifedipine":             "Calcium Channel Blocker",
	"Propranolol":            "Beta Blocker",
	"Ramipril":               "ACE Inhibitor",
	"Telmisartan":            "Angiotensin II Receptor Blocker",
	"Valsartan":              "Angiotensin II Receptor Blocker",
	"Verapamil":              "Calcium Channel Blocker",
	"Atorvastatin":           "Statin (HMG-CoA Reductase Inhibitor)",
	"Rosuvastatin":           "Statin (HMG-CoA Reductase Inhibitor)",
	"Simvastatin":            "Statin (HMG-CoA Reductase Inhibitor)",
	"Amiodarone":             "Antiarrhythmic",
	"Clopidogrel":            "Antiplatelet",
	"Digoxin":                "Cardiac Glycoside",
	"Warfarin":               "Anticoagulant",
	"Furosemide":             "Diuretic (Loop)",
	"Spironolactone":         "Diuretic (Potassium-Sparing)",
	"Isosorbide Mononitrate": "Nitrate (Vasodilator)",

	"Dapagliflozin": "Antidiabetic (SGLT2 Inhibitor)",
	"Gliclazide":    "Antidiabetic (Sulfonylurea)",
	"Glimepiride":   "Antidiabetic (Sulfonylurea)",
	"Glipizide":     "Antidiabetic (Sulfonylurea)",
	"Insulin":       "Antidiabetic (Insulin)",
	"Linagliptin":   "Antidiabetic (DPP-4 Inhibitor)",
	"Metformin":     "Antidiabetic (Biguanide)",
	"Pioglitazone":  "Antidiabetic (Thiazolidinedione)",
	"Sitagliptin":   "Antidiabetic (DPP-4 Inhibitor)",

	"Albuterol":        "Bronchodilator (Beta-2 Agonist)",
	"Budesonide":       "Inhaled Corticosteroid",
	"Fluticasone":      "Inhaled Corticosteroid",
	"Montelukast":      "Leukotriene Receptor Antagonist",
	"Salbutamol":       "Bronchodilator (Beta-2 Agonist)",
	"Theophylline":     "Bronchodilator (Methylxanthine)",
	"Cetirizine":       "Antihistamine (2nd Generation)",
	"Chlorpheniramine": "Antihistamine (1st Generation)",
	"Diphenhydramine":  "Antihistamine (1st Generation)",
	"Fexofenadine":     "Antihistamine (2nd Generation)",
	"Levocetirizine":   "Antihistamine (2nd Generation)",
	"Loratadine":       "Antihistamine (2nd Generation)",
	"Promethazine":     "Antihistamine / Antiemetic",
	"Acetylcysteine":   "Mucolytic",
	"Ambroxol":         "Mucolytic",
	"Bromhexine":       "Mucolytic",
	"Guaifenesin":      "Expectorant",

	"Dexamethasone":      "Corticosteroid",
	"Hydrocortisone":     "Corticosteroid",
	"Methylprednisolone": "Corticosteroid",
	"Prednisolone":       "Corticosteroid",
	"Prednisone":         "Corticosteroid",

	"Amitriptyline": "Antidepressant (TCA)",
	"Fluoxetine":    "Antidepressant (SSRI)",
	"Mirtazapine":   "Antidepressant (NaSSA)",
	"Paroxetine":    "Antidepressant (SSRI)",
	"Sertraline":    "Antidepressant (SSRI)",
	"Venlafaxine":   "Antidepressant (SNRI)",
	"Haloperidol":   "Antipsychotic (Typical)",
	"Olanzapine":    "Antipsychotic (Atypical)",
	"Quetiapine":    "Antipsychotic (Atypical)",
	"Risperidone":   "Antipsychotic (Atypical)",
	"Alprazolam":    "Benzodiazepine (Anxiolytic)",
	"Clonazepam":    "Benzodiazepine (Anticonvulsant)",
	"Diazepam":      "Benzodiazepine",
	"Lorazepam":     "Benzodiazepine",
	"Zolpidem":      "Sedative-Hypnotic",
	"Carbamazepine": "Anticonvulsant",
	"Divalproex":    "Anticonvulsant",
	"Gabapentin":    "Anticonvulsant / Neuropathic Pain",
	"Levetiracetam": "Anticonvulsant",
	"Oxcarbazepine": "Anticonvulsant",
	"Phenytoin":     "Anticonvulsant",
	"Valproic Acid": "Anticonvulsant",
	"Donepezil":     "Cholinesterase Inhibitor",
	"Memantine":     "NMDA Receptor Antagonist",

	"Allopurinol":   "Antigout (Xanthine Oxidase Inhibitor)",
	"Baclofen":      "Muscle Relaxant",
	"Colchicine":    "Antigout",
	"Levothyroxine": "Thyroid Hormone",
	"Tamsulosin":    "Alpha Blocker (Urological)",
	"Sildenafil":    "PDE-5 Inhibitor",

	"Calcium Carbonate":     "Calcium Supplement",
	"Cholecalciferol":       "Vitamin D3",
	"Ferrous Sulfate":       "Iron Supplement",
	"Folic Acid":            "Vitamin B9",
	"Multivitamin":          "Vitamin / Mineral Supplement",
	"Multivitamine":         "Vitamin / Mineral Supplement",
	"Potassium Chloride":    "Potassium Supplement",
	"Pyridoxine":            "Vitamin B6",
	"Thiamine":              "Vitamin B1",
	"Vitamin A":             "Vitamin Supplement",
	"Vitamin B Complex":     "Vitamin Supplement",
	"Vitamin B12":           "Vitamin Supplement",
	"Vitamin C":             "Vitamin Supplement",
	"Vitamin D":             "Vitamin Supplement",
	"Vitamin E":             "Vitamin Supplement",
	"Vitamin K":             "Vitamin Supplement",
	"Zinc Sulfate":          "Mineral Supplement",
	"Oral Rehydration Salts": "Oral Rehydration Therapy",

	"Mupirocin":  "Topical Antibiotic",
	"Permethrin": "Scabicide / Pediculicide",
	"Alendronate": "Bisphosphonate",
}
