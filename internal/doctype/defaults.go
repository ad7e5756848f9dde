package doctype

// ID fields.
const (
	BiosampleID = "biosampleId"
	Accession   = "accession"
)

// Default returns the built-in table of URI-typed fields, as listed with the
// uri_value type in the FAANG ruleset.
func Default() Table {
	return MustTable(
		Spec{
			Name:    "organism",
			IDField: BiosampleID,
			Fields:  []string{"pedigree"},
		},
		Spec{
			Name:    "specimen",
			IDField: BiosampleID,
			Fields: []string{
				"availability",
				"specimenFromOrganism.specimenCollectionProtocol.url",
				"specimenFromOrganism.specimenPictureUrl",
				"poolOfSpecimens.poolCreationProtocol.url",
				"poolOfSpecimens.specimenPictureUrl",
				"cellSpecimen.purificationProtocol.url",
				"cellCulture.cellCultureProtocol.url",
				"cellLine.cultureProtocol.url",
			},
		},
		Spec{
			Name:    "experiment",
			IDField: Accession,
			Fields: []string{
				"experimentalProtocol.url",
				"extractionProtocol.url",
				"ATAC-seq.transposaseProtocol.url",
				"BS-seq.bisulfiteConversionProtocol.url",
				"BS-seq.pcrProductIsolationProtocol.url",
				"ChiP-seq histone.chipProtocol.url",
				"ChiP-seq histone.chipProtocol.url",
				"DNase-seq.dnaseProtocol.url",
				"Hi-C.hi-cProtocol.url",
				"RNA-seq.rnaPreparation3AdapterLigationProtocol.url",
				"RNA-seq.rnaPreparation5AdapterLigationProtocol.url",
				"RNA-seq.libraryGenerationPcrProductIsolationProtocol.url",
				"RNA-seq.preparationReverseTranscriptionProtocol.url",
				"RNA-seq.libraryGenerationProtocol.url",
				"WGS.libraryGenerationPcrProductIsolationProtocol.url",
				"WGS.libraryGenerationProtocol.url",
			},
		},
	)
}
